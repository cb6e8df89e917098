package apimodel

// API versions that the harness knows how to test.
const (
	V01 = "v0.1"
	V05 = "v0.5"
)

// Versions returns the supported API versions, oldest first.
func Versions() []string {
	return []string{V01, V05}
}

// IsSupportedVersion returns true if version is one of Versions.
func IsSupportedVersion(version string) bool {
	return version == V01 || version == V05
}
