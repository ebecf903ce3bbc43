package app

// Steps reported by CreatePackage, in order.
const (
	StepValidate = "Validate options"
	StepPrepare  = "Prepare output directory"
	StepCompose  = "Compose templates"
	StepLicense  = "Write license"
	StepGit      = "Initialize git repository"
	StepSecrets  = "Discover workflow secrets"
)

// Reporter receives progress for each step of a run.
type Reporter interface {
	// Start marks step as running.
	Start(step string)
	// Done marks step as finished with an optional detail.
	Done(step, detail string)
	// Skip marks step as not applicable.
	Skip(step, reason string)
	// Fail marks step as failed.
	Fail(step string, err error)
}

// NopReporter discards all progress.
type NopReporter struct{}

func (NopReporter) Start(string)        {}
func (NopReporter) Done(string, string) {}
func (NopReporter) Skip(string, string) {}
func (NopReporter) Fail(string, error)  {}
