package upload

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/moyoez/zipconsole/tool"
	"github.com/moyoez/zipconsole/types"
)

// PathSource reads an archive from the local filesystem.
type PathSource string

func (p PathSource) Open() (io.ReadCloser, error) {
	return os.Open(string(p))
}

// BytesSource serves an archive held in memory.
type BytesSource []byte

func (b BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// PathCandidate builds a candidate from a local path or file:// URL.
// The name is the base name; missing files are still returned so validation
// can report them, with a nil Source when the path cannot be read.
func PathCandidate(pathOrURL string) types.Candidate {
	path, err := tool.ResolveLocalPath(pathOrURL)
	if err != nil {
		tool.DefaultLogger.Warnf("[Queue] %v", err)
		return types.Candidate{Name: filepath.Base(pathOrURL)}
	}
	name, size, _, err := tool.GetFileInfoFromPath(path)
	if err != nil {
		tool.DefaultLogger.Warnf("[Queue] Cannot read %s: %v", path, err)
		return types.Candidate{Name: filepath.Base(path)}
	}
	return types.Candidate{Name: name, Size: size, Source: PathSource(path)}
}
