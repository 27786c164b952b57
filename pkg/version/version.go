package version

// Build variables set via ldflags during compilation:
// -X 'github.com/syncbuild/syncbuild/pkg/version.Version=v1.0.0'
// -X 'github.com/syncbuild/syncbuild/pkg/version.CommitHash=abc123'
var (
	// Version is the semantic version of the binary (e.g., "1.0.0")
	Version = "unknown"
	// CommitHash is the git commit hash used to build the binary
	CommitHash = "unknown"
)

// Info returns build information in a structured format
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
}

// Get returns the current build information
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
	}
}
