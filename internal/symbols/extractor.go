package symbols

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// ErrUndecodable indicates a header whose content is not valid UTF-8 text.
var ErrUndecodable = errors.New("header is not valid UTF-8 text")

// Extractor recovers the public symbols a header introduces using a fixed battery
// of textual patterns. It does not parse C.
type Extractor struct {
	naming Naming
	cache  *Cache

	typedefStruct *regexp.Regexp
	opaqueStruct  *regexp.Regexp
	declareType   *regexp.Regexp
	paramType     *regexp.Regexp
	macroDefine   *regexp.Regexp
	functionCall  *regexp.Regexp
}

// NewExtractor compiles the patterns for the given naming.
func NewExtractor(naming Naming) *Extractor {
	typ := regexp.QuoteMeta(naming.NewTypePrefix())
	mac := regexp.QuoteMeta(naming.NewMacroPrefix())
	fn := regexp.QuoteMeta(naming.NewFunctionPrefix())

	return &Extractor{
		naming:        naming,
		typedefStruct: regexp.MustCompile(fmt.Sprintf(`typedef\s+struct\s+\w+\s+(%s\w+)`, typ)),
		opaqueStruct:  regexp.MustCompile(fmt.Sprintf(`typedef\s+struct\s+_(%s\w+)`, typ)),
		declareType: regexp.MustCompile(fmt.Sprintf(
			`G_DECLARE_\w+_TYPE\s*\(\s*(%s\w+)\s*,\s*(%s_\w+)\s*,\s*(%s)\s*,\s*([A-Z0-9_]+)\s*[,)]`,
			typ, fn, mac)),
		paramType:    regexp.MustCompile(fmt.Sprintf(`\b(%s\w+)\s+\*`, typ)),
		macroDefine:  regexp.MustCompile(fmt.Sprintf(`#define\s+(%s_[A-Z0-9_]+)\b`, mac)),
		functionCall: regexp.MustCompile(fmt.Sprintf(`\b(%s_\w+)\s*\(`, fn)),
	}
}

// WithCache makes ExtractFile reuse results for files whose size and modification
// time have not changed.
func (x *Extractor) WithCache(cache *Cache) *Extractor {
	x.cache = cache
	return x
}

// Naming returns the naming the extractor was built for.
func (x *Extractor) Naming() Naming {
	return x.naming
}

// ExtractContent applies every pattern to the whole content.
func (x *Extractor) ExtractContent(content string) *Universe {
	u := NewUniverse()

	for _, m := range x.typedefStruct.FindAllStringSubmatch(content, -1) {
		u.Types.Add(m[1])
	}

	for _, m := range x.opaqueStruct.FindAllStringSubmatch(content, -1) {
		u.Types.Add(m[1])
	}

	for _, m := range x.declareType.FindAllStringSubmatch(content, -1) {
		u.AddDeclaration(TypeDeclaration{
			TypeName:       m[1],
			FunctionPrefix: m[2],
			ShortPrefix:    m[3],
			TypeSuffix:     m[4],
		})
	}

	// Types that only ever appear as pointer parameters
	for _, m := range x.paramType.FindAllStringSubmatch(content, -1) {
		u.Types.Add(m[1])
	}

	for _, m := range x.macroDefine.FindAllStringSubmatch(content, -1) {
		u.Macros.Add(m[1])
	}

	for _, m := range x.functionCall.FindAllStringSubmatch(content, -1) {
		u.Functions.Add(m[1])
	}

	return u
}

// ExtractFile reads one header and extracts its symbols.
func (x *Extractor) ExtractFile(path string) (*Universe, error) {
	var info os.FileInfo
	if x.cache != nil {
		var err error
		if info, err = os.Stat(path); err == nil {
			if cached, ok := x.cache.lookup(path, info); ok {
				return cached, nil
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s: %w", path, ErrUndecodable)
	}

	u := x.ExtractContent(string(data))
	if x.cache != nil && info != nil {
		x.cache.store(path, info, u)
	}
	return u, nil
}

// ExtractAll folds the symbols of every header into one universe. A header that
// cannot be read or decoded is logged and contributes nothing. onFile, if not nil,
// is called after each header. The only error returned is context cancellation.
func (x *Extractor) ExtractAll(ctx context.Context, paths []string, onFile func(path string)) (*Universe, error) {
	all := NewUniverse()

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		u, err := x.ExtractFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Could not read header, skipping")
		} else {
			all.Merge(u)
		}

		if onFile != nil {
			onFile(path)
		}
	}

	return all, nil
}
