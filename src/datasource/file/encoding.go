package file

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// decodeReader 把 r 按 name 指定的字符集转成 UTF-8
// UTF-8 输入会去掉开头的 BOM；其余名称按 WHATWG 标签解析（latin1、windows-1252 等）
func decodeReader(r io.Reader, name string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, eris.Wrapf(err, "decode: unknown encoding %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
