package data

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

//go:embed data-files
var dataFilesRoot embed.FS

const dataBasePath = "data-files"

// SourceInfo represents JSON or YAML data that was read from a file, after post-processing to expand
// constants and parameters. For non-parameterized files, you will get one SourceInfo per file. For
// parameterized files, there can be many instances per file, each with its own version of Data.
type SourceInfo struct {
	FilePath string
	BaseName string
	Params   map[string]ldvalue.Value
	Data     []byte
}

// ParseInto decodes the data into target. Properties that target has no field for are errors.
func (s SourceInfo) ParseInto(target interface{}) error {
	if err := ParseJSONOrYAMLStrict(s.Data, target); err != nil {
		return fmt.Errorf("error parsing %q %s: %w", s.BaseName, s.ParamsString(), err)
	}
	return nil
}

func (s SourceInfo) ParamsString() string {
	if len(s.Params) == 0 {
		return ""
	}
	ps := ""
	for _, k := range sortedKeys(s.Params) {
		if ps != "" {
			ps += ","
		}
		ps += k + "=" + s.Params[k].String()
	}
	return "(" + ps + ")"
}

// LoadDataFile reads an embedded data file and performs any necessary constant/parameter
// substitutions. It can return more than one SourceInfo because any file can be parameterized.
//
// The path parameter is relative to data/data-files.
func LoadDataFile(path string) ([]SourceInfo, error) {
	data, err := dataFilesRoot.ReadFile(dataBasePath + "/" + path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return expandSourceData(path, data, nil)
}

// LoadExternalFile is like LoadDataFile, but reads a file from the filesystem. Any runtime values
// are substituted for their <name> placeholders before the file's own constants and parameters
// are expanded.
func LoadExternalFile(path string, runtimeValues map[string]ldvalue.Value) ([]SourceInfo, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return expandSourceData(path, data, runtimeValues)
}

func expandSourceData(path string, data []byte, runtimeValues map[string]ldvalue.Value) ([]SourceInfo, error) {
	if len(runtimeValues) != 0 {
		data = replaceVariables(data, runtimeValues)
	}
	sources, err := expandSubstitutions(data)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %s", path, err)
	}
	ret := make([]SourceInfo, 0, len(sources))
	for _, source := range sources {
		source.FilePath = path
		source.BaseName = filepath.Base(path)
		ret = append(ret, source)
	}
	return ret, nil
}
