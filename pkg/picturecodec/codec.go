// Package picturecodec converts picture bytes to and from the portable text form
// used on the wire and in the sync queue.
package picturecodec

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// ErrEmptyFile is returned for a zero-byte picture file; the record store rejects empty pictures.
var ErrEmptyFile = errors.New("empty picture file")

func Encode(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Decode accepts plain base64 as well as a data URL ("data:image/png;base64,...").
func Decode(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		i := strings.IndexByte(s, ',')
		if i < 0 {
			return nil, fmt.Errorf("picturecodec - Decode: malformed data url")
		}
		s = s[i+1:]
	}

	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("picturecodec - Decode - base64.DecodeString: %w", err)
	}

	return b, nil
}

// EncodeFile reads the whole file at path and encodes it.
func EncodeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("picturecodec - EncodeFile - os.Open: %w", err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("picturecodec - EncodeFile - io.ReadAll: %w", err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("picturecodec - EncodeFile - %s: %w", path, ErrEmptyFile)
	}

	return Encode(b), nil
}

func ContentType(data []byte) string {
	return http.DetectContentType(data)
}
