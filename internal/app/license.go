package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// LicenseFile is the name of the license written into public packages.
const LicenseFile = "LICENSE"

const mitLicense = `MIT License

Copyright (c) {year} {holder}

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`

// MITLicense returns the MIT license text for year and holder.
func MITLicense(year int, holder string) string {
	return strings.NewReplacer(
		"{year}", fmt.Sprintf("%d", year),
		"{holder}", holder,
	).Replace(mitLicense)
}

// WriteLicense writes an MIT LICENSE into dir when the package is public
// and has an author. It reports whether a file was written; an existing
// LICENSE from the templates is replaced.
func WriteLicense(fs afero.Fs, dir string, cfg GenerationConfig, year int) (bool, error) {
	if !cfg.Public || strings.TrimSpace(cfg.AuthorName) == "" {
		return false, nil
	}

	path := filepath.Join(dir, LicenseFile)
	if err := afero.WriteFile(fs, path, []byte(MITLicense(year, cfg.AuthorName)), 0644); err != nil {
		return false, NewAppError(LicenseFailed, "failed to write license", err)
	}
	return true, nil
}
