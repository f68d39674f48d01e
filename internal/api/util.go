package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dhyhn5012/tccb/internal/model"
)

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func countEmployees(records []model.ShiftRecord) int {
	type key struct{ dept, name string }
	seen := make(map[key]struct{}, len(records))
	for _, r := range records {
		seen[key{r.Department, r.EmployeeName}] = struct{}{}
	}
	return len(seen)
}

// asciiFilename strips diacritics for the legacy filename parameter.
func asciiFilename(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, name)
	if err != nil {
		out = name
	}
	out = strings.NewReplacer("đ", "d", "Đ", "D").Replace(out)

	var b strings.Builder
	for _, r := range out {
		switch {
		case r > unicode.MaxASCII, r == '"', r == '\\', r < 0x20:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// contentDisposition builds an attachment header with an ASCII fallback and
// the UTF-8 name.
func contentDisposition(filename string) string {
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", asciiFilename(filename), url.PathEscape(filename))
}
