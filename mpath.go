package viewrouter

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// parseMpath will split p into appropriate parts for an mpath.
// After parsing each element of mpath will either be a static
// string or a parameter starting with ":".
func parseMpath(p string) (mpath, error) {
	ret := make(mpath, 0, 2)
	p = path.Clean("/" + p)

	lastWasSlash := false
	inParam := false
	startIdx := 0

	for i := range p {

		c := p[i]

		if c == '/' {
			if inParam {
				if i-startIdx == 1 {
					return nil, fmt.Errorf("%w: empty parameter name in %q", ErrInvalidRoute, p)
				}
				ret = append(ret, p[startIdx:i])
				inParam = false
				startIdx = i
			}
			lastWasSlash = true
			continue
		}

		if lastWasSlash && c == ':' {
			ret = append(ret, p[startIdx:i])
			inParam = true
			startIdx = i
		}
		lastWasSlash = false

	}

	// append last part if needed
	if startIdx < len(p) {
		if inParam && len(p)-startIdx == 1 {
			return nil, fmt.Errorf("%w: empty parameter name in %q", ErrInvalidRoute, p)
		}
		ret = append(ret, p[startIdx:])
	}

	return ret, nil
}

// mpath is a matchable-path.  It's basically just a path split by parameter values.
type mpath []string

// paramNames will return the parameter names
// without the preceding colon, i.e. the path "/somewhere/:p1/:p2"
// will return []string{"p1","p2"}
func (mp mpath) paramNames() []string {
	var ret []string
	for _, p := range mp {
		if isParam(p) {
			ret = append(ret, p[1:])
		}
	}
	return ret
}

// String returns the re-assembled path pattern
func (mp mpath) String() string {
	return strings.Join(mp, "")
}

// shape is the pattern with parameter names erased, so "/a/:id" and
// "/a/:slug" compare equal.  Two routes with the same shape can never
// both be reached.
func (mp mpath) shape() string {
	var b strings.Builder
	for _, p := range mp {
		if isParam(p) {
			b.WriteString(":")
			continue
		}
		b.WriteString(p)
	}
	return b.String()
}

// merge will use any values provided for the appropriate path params
// and return the constructed path.  A missing param value will cause
// ErrMissingParam to be returned but will still return the path with
// the missing param(s) replaced with "_".  The otherValues will
// be populated with all values not merged into the output path.
func (mp mpath) merge(v url.Values) (outPath string, otherValues url.Values, reterr error) {

	if len(v) > 0 {
		otherValues = make(url.Values, len(v))
		for k, val := range v {
			otherValues[k] = val
		}
	}

	var buf bytes.Buffer
	buf.Grow(64)

	for _, p := range mp {
		if isParam(p) {
			pname := p[1:]
			vlist := v[pname]
			if len(vlist) == 0 || vlist[0] == "" {
				reterr = fmt.Errorf("%w %q", ErrMissingParam, pname)
				buf.WriteString("_")
				continue
			}
			buf.WriteString(url.PathEscape(vlist[0]))
			otherValues.Del(pname)
			continue
		}
		buf.WriteString(p)
	}

	if len(otherValues) == 0 {
		otherValues = nil
	}

	return buf.String(), otherValues, reterr
}

// match compares our mpath to the path provided and returns the parameter
// values plus ok true if the static parts line up.  If !exact it means the
// path matched but there is more after.
func (mp mpath) match(p string) (params PathParamList, exact, ok bool) {

	prest := path.Clean("/" + p)

	readParam := func(pin string) (pr, pv string) {
		for i := range pin {
			if pin[i] == '/' {
				return pin[i:], pin[:i]
			}
		}
		// no slash means the entire input is the param value
		return "", pin
	}

	for _, mpart := range mp {

		if isParam(mpart) {
			var pval string
			prest, pval = readParam(prest)
			if pval == "" {
				return nil, false, false
			}
			if uv, err := url.PathUnescape(pval); err == nil {
				pval = uv
			}
			params = append(params, PathParam{Key: mpart[1:], Value: pval})
			continue
		}

		if !strings.HasPrefix(prest, mpart) {
			return nil, false, false
		}
		prest = prest[len(mpart):]

		// a static part must end on a segment boundary: "/test" is not a prefix of "/testing"
		if prest != "" && prest[0] != '/' && !strings.HasSuffix(mpart, "/") {
			return nil, false, false
		}
	}

	exact = prest == ""

	ok = true
	return
}

func isParam(part string) bool {
	return strings.HasPrefix(part, ":")
}
