package sequence

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"seqview/internal/services"
)

const maxPadding = 32

// Descriptor is the parsed form of a printf-style frame path such as
// /renders/shot_%04d.exr.
type Descriptor struct {
	Dir  string
	Head string
	// Padding is the frame-number digit width. Zero means an unpadded %d
	// placeholder matching one or more digits.
	Padding int
	Tail    string

	matcher *regexp.Regexp
}

// Parse splits path into a Descriptor. ok is false when the base name holds
// no % placeholder. The placeholder must have the form %d or %<width>d with a
// decimal width of any length; a leading zero is accepted and ignored.
func Parse(path string) (desc Descriptor, ok bool, err error) {
	base := filepath.Base(path)
	idx := strings.IndexByte(base, '%')
	if idx < 0 {
		return Descriptor{}, false, nil
	}

	rest := base[idx+1:]
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits >= len(rest) || rest[digits] != 'd' {
		return Descriptor{}, true, services.Wrap(services.ErrInvalidPattern, "sequence", "parse", fmt.Sprintf("%q: expected %%d or %%<width>d", base), nil)
	}

	padding := 0
	if digits > 0 {
		padding, err = strconv.Atoi(rest[:digits])
		if err != nil {
			return Descriptor{}, true, services.Wrap(services.ErrInvalidPattern, "sequence", "parse", fmt.Sprintf("%q: width", base), err)
		}
	}

	if padding > maxPadding {
		return Descriptor{}, true, services.Wrap(services.ErrInvalidPattern, "sequence", "parse", fmt.Sprintf("%q: width %d exceeds %d", base, padding, maxPadding), nil)
	}

	tail := rest[digits+1:]
	if strings.IndexByte(tail, '%') >= 0 {
		return Descriptor{}, true, services.Wrap(services.ErrInvalidPattern, "sequence", "parse", fmt.Sprintf("%q: multiple placeholders", base), nil)
	}

	desc = Descriptor{
		Dir:     filepath.Dir(path),
		Head:    norm.NFC.String(base[:idx]),
		Padding: padding,
		Tail:    norm.NFC.String(tail),
	}
	desc.matcher = desc.compile()
	return desc, true, nil
}

func (d Descriptor) compile() *regexp.Regexp {
	digits := "[0-9]+"
	if d.Padding > 0 {
		digits = fmt.Sprintf("[0-9]{%d}", d.Padding)
	}
	return regexp.MustCompile("^" + regexp.QuoteMeta(d.Head) + "(" + digits + ")" + regexp.QuoteMeta(d.Tail) + "$")
}

// Match reports whether name (a base name) belongs to the sequence and
// returns its frame number.
func (d Descriptor) Match(name string) (int, bool) {
	matcher := d.matcher
	if matcher == nil {
		matcher = d.compile()
	}
	groups := matcher.FindStringSubmatch(norm.NFC.String(name))
	if groups == nil {
		return 0, false
	}
	frame, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, false
	}
	return frame, true
}

// Pattern renders the descriptor back into its printf-style base name.
func (d Descriptor) Pattern() string {
	if d.Padding == 0 {
		return d.Head + "%d" + d.Tail
	}
	return fmt.Sprintf("%s%%0%dd%s", d.Head, d.Padding, d.Tail)
}

// FramePath returns the absolute-or-relative path of frame n, as Dir allows.
func (d Descriptor) FramePath(n int) string {
	var name string
	if d.Padding == 0 {
		name = d.Head + strconv.Itoa(n) + d.Tail
	} else {
		name = fmt.Sprintf("%s%0*d%s", d.Head, d.Padding, n, d.Tail)
	}
	return filepath.Join(d.Dir, name)
}
