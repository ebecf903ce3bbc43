package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/tacogips/pkgsmith/internal/fsutil"
	"github.com/tacogips/pkgsmith/internal/logging"
)

// RemoteOptions configures a RemoteSource.
type RemoteOptions struct {
	// APIURL is the hosting API base URL, e.g. https://api.github.com.
	APIURL string
	// Owner is the repository owner.
	Owner string
	// Repo is the repository name.
	Repo string
	// Ref is the branch, tag or commit to read.
	Ref string
	// Token is the optional access token.
	Token string
	// Timeout is the request timeout in seconds; 0 disables it.
	Timeout int
	// HTTPClient replaces the default client when set.
	HTTPClient *http.Client
}

// RemoteSource reads templates from a repository on a GitHub-compatible
// hosting API. The repository archive is downloaded at most once per
// owner/repo@ref and kept in a private cache directory until Close.
type RemoteSource struct {
	opts   RemoteOptions
	client *http.Client
	fs     *fsutil.FS
	log    zerolog.Logger

	mu       sync.Mutex
	cacheDir string
	roots    map[string]string
}

// contentEntry is one element of a contents API directory listing.
type contentEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// probeResult is the outcome of an existence probe.
type probeResult int

const (
	probeUnknown probeResult = iota
	probePresent
	probeAbsent
)

func (p probeResult) String() string {
	switch p {
	case probePresent:
		return "present"
	case probeAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// NewRemoteSource creates a remote source.
func NewRemoteSource(fs *fsutil.FS, opts RemoteOptions) *RemoteSource {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: time.Duration(opts.Timeout) * time.Second}
	}
	return &RemoteSource{
		opts:   opts,
		client: client,
		fs:     fs,
		log:    logging.Get("source.remote"),
		roots:  make(map[string]string),
	}
}

// Name returns the source name.
func (s *RemoteSource) Name() string {
	return "remote"
}

// Resolve probes the remote repository for templates/language/resource,
// downloads the archive and returns the extracted subtree.
//
// Only an explicit not-found probe fails fast. Transport errors and
// unexpected statuses fall through to the download, which is authoritative.
func (s *RemoteSource) Resolve(ctx context.Context, language, resource string) (string, error) {
	repoPath := path.Join(TemplatesDir, TemplatePath(language, resource))
	log := s.log.With().Str("path", repoPath).Logger()

	result := s.probe(ctx, repoPath)
	log.Debug().Stringer("probe", result).Msg("Probed remote templates")
	if result == probeAbsent {
		return "", NewRemoteNotFoundError(language, resource, repoPath)
	}

	root, err := s.downloadRecovered(ctx)
	if err != nil {
		return "", NewDownloadError(language, resource, repoPath, err)
	}

	dir := filepath.Join(root, filepath.FromSlash(repoPath))
	if !s.fs.IsDirectory(dir) {
		return "", NewMissingAfterDownloadError(language, resource, repoPath)
	}
	log.Debug().Str("dir", dir).Msg("Resolved remote templates")
	return dir, nil
}

// ListTemplates lists directory entries under templates/language/resource
// through the contents API.
func (s *RemoteSource) ListTemplates(ctx context.Context, language, resource string) ([]string, error) {
	repoPath := path.Join(TemplatesDir, TemplatePath(language, resource))

	status, body, err := s.getContents(ctx, repoPath)
	if err != nil {
		return nil, NewListFailedError(language, resource, repoPath, 0, err)
	}
	if status < 200 || status > 299 {
		return nil, NewListFailedError(language, resource, repoPath, status, nil)
	}

	var entries []contentEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, NewListMalformedError(language, resource, repoPath, err)
	}
	if entries == nil {
		return nil, NewListMalformedError(language, resource, repoPath, errors.New("response body is null"))
	}

	var names []string
	for _, entry := range entries {
		if entry.Type == "dir" && isSelectable(entry.Name) {
			names = append(names, entry.Name)
		}
	}
	return sortedNames(names), nil
}

// Close removes the download cache.
func (s *RemoteSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cacheDir == "" {
		return nil
	}
	dir := s.cacheDir
	s.cacheDir = ""
	s.roots = make(map[string]string)
	if err := s.fs.Afero().RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove template cache %s: %w", dir, err)
	}
	s.log.Debug().Str("dir", dir).Msg("Removed template cache")
	return nil
}

// probe asks the contents API whether repoPath is a directory.
func (s *RemoteSource) probe(ctx context.Context, repoPath string) probeResult {
	status, body, err := s.getContents(ctx, repoPath)
	if err != nil {
		s.log.Debug().Err(err).Str("path", repoPath).Msg("Probe failed, continuing to download")
		return probeUnknown
	}

	switch {
	case status == http.StatusNotFound:
		return probeAbsent
	case status < 200 || status > 299:
		return probeUnknown
	}

	var entries []contentEntry
	if err := json.Unmarshal(body, &entries); err != nil || entries == nil {
		return probeAbsent
	}
	return probePresent
}

// getContents performs a contents API request and returns the status and
// body.
func (s *RemoteSource) getContents(ctx context.Context, repoPath string) (int, []byte, error) {
	resp, err := s.get(ctx, s.contentsURL(repoPath), "application/vnd.github+json")
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// downloadRecovered runs download, converting panics into errors.
func (s *RemoteSource) downloadRecovered(ctx context.Context) (root string, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = fmt.Errorf("%v", r)
			}
		}
	}()
	return s.download(ctx)
}

// download fetches and extracts the repository archive unless it is
// already cached, returning the extracted repository root.
func (s *RemoteSource) download(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.cacheKey()
	if root, ok := s.roots[key]; ok {
		s.log.Debug().Str("source", key).Msg("Using cached template archive")
		return root, nil
	}

	if s.cacheDir == "" {
		dir, err := afero.TempDir(s.fs.Afero(), "", "pkgsmith-templates-")
		if err != nil {
			return "", fmt.Errorf("failed to create cache directory: %w", err)
		}
		s.cacheDir = dir
	}

	root := filepath.Join(s.cacheDir, sanitizeKey(key))
	if err := s.fs.Afero().RemoveAll(root); err != nil {
		return "", fmt.Errorf("failed to clear cache entry: %w", err)
	}

	done := logging.OperationStart(s.log, "download "+key)
	defer done()

	resp, err := s.get(ctx, s.tarballURL(), "application/vnd.github+json")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	count, err := extractTarball(s.fs.Afero(), resp.Body, root, TemplatesDir)
	if err != nil {
		return "", fmt.Errorf("failed to extract archive: %w", err)
	}
	s.log.Info().Str("source", key).Int("files", count).Msg("Downloaded templates")

	s.roots[key] = root
	return root, nil
}

func (s *RemoteSource) get(ctx context.Context, rawURL, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	if s.opts.Token != "" {
		req.Header.Set("Authorization", "token "+s.opts.Token)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", "pkgsmith")
	return s.client.Do(req)
}

func (s *RemoteSource) contentsURL(repoPath string) string {
	q := url.Values{}
	if s.opts.Ref != "" {
		q.Set("ref", s.opts.Ref)
	}
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s", s.apiBase(),
		url.PathEscape(s.opts.Owner), url.PathEscape(s.opts.Repo), escapePath(repoPath))
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func (s *RemoteSource) tarballURL() string {
	u := fmt.Sprintf("%s/repos/%s/%s/tarball", s.apiBase(),
		url.PathEscape(s.opts.Owner), url.PathEscape(s.opts.Repo))
	if s.opts.Ref != "" {
		u += "/" + escapePath(s.opts.Ref)
	}
	return u
}

func (s *RemoteSource) apiBase() string {
	return strings.TrimRight(s.opts.APIURL, "/")
}

func (s *RemoteSource) cacheKey() string {
	key := s.opts.Owner + "/" + s.opts.Repo
	if s.opts.Ref != "" {
		key += "@" + s.opts.Ref
	}
	return key
}

// escapePath escapes each slash-separated segment.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// sanitizeKey turns a cache key into a single directory name.
func sanitizeKey(key string) string {
	return strings.NewReplacer("/", "_", "@", "_", "\\", "_", ":", "_").Replace(key)
}
