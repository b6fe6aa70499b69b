package deploy

import (
	"bytes"
	"unicode/utf8"
)

// IsBinary reports whether content should be uploaded as an opaque blob
// rather than through the text contents API. Any NUL byte means binary;
// otherwise content that is not valid UTF-8 is treated as binary. The
// worst case is a false positive — binary upload works for any bytes.
func IsBinary(content []byte) bool {
	if bytes.IndexByte(content, 0) >= 0 {
		return true
	}
	return !utf8.Valid(content)
}
