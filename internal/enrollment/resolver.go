package enrollment

import (
	"strconv"
	"strings"
)

// ResolvedToken is the outcome for one token: Known carries the name to
// submit, otherwise Value is the raw token.
type ResolvedToken struct {
	Value string
	Known bool
	// PassThrough marks a free-text token accepted as-is because no catalog was available.
	PassThrough bool
}

// Resolution splits a submission into names to send and tokens to report.
type Resolution struct {
	Resolved []string `json:"resolved"`
	Unknown  []string `json:"unknown"`
	// PassThrough counts resolved tokens accepted without a catalog match.
	PassThrough int `json:"pass_through"`
}

// Tokenize splits comma separated input, trimming pieces and dropping empty ones.
func Tokenize(input string) []string {
	parts := strings.Split(input, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Resolve tokenizes input and resolves each token against catalog.
func Resolve(input string, catalog *Catalog) Resolution {
	return ResolveTokens(Tokenize(input), catalog)
}

// ResolveTokens resolves already tokenized input, preserving order and duplicates.
func ResolveTokens(tokens []string, catalog *Catalog) Resolution {
	res := Resolution{Resolved: []string{}, Unknown: []string{}}
	for _, token := range tokens {
		rt := ResolveToken(token, catalog)
		if rt.Known {
			res.Resolved = append(res.Resolved, rt.Value)
			if rt.PassThrough {
				res.PassThrough++
			}
		} else {
			res.Unknown = append(res.Unknown, rt.Value)
		}
	}
	return res
}

// ResolveToken maps one token to a canonical course name.
//
// Integer tokens must match a catalog id; a bare number is never submitted.
// Other tokens match on normalized name and are passed through unchanged only
// when the catalog is empty.
func ResolveToken(token string, catalog *Catalog) ResolvedToken {
	token = strings.TrimSpace(token)
	if id, err := strconv.Atoi(token); err == nil {
		if name, ok := catalog.NameByID(id); ok {
			return ResolvedToken{Value: name, Known: true}
		}
		return ResolvedToken{Value: token}
	}
	if id, ok := catalog.IDByName(token); ok {
		if name, ok := catalog.NameByID(id); ok {
			return ResolvedToken{Value: name, Known: true}
		}
	}
	if catalog.IsEmpty() {
		return ResolvedToken{Value: token, Known: true, PassThrough: true}
	}
	return ResolvedToken{Value: token}
}

// Blocked reports whether a non-empty submission resolved to nothing.
func (r Resolution) Blocked() bool {
	return len(r.Resolved) == 0 && len(r.Unknown) > 0
}

// Err returns an *UnknownCoursesError when the submission must be blocked.
func (r Resolution) Err() error {
	if !r.Blocked() {
		return nil
	}
	tokens := make([]string, len(r.Unknown))
	copy(tokens, r.Unknown)
	return &UnknownCoursesError{Tokens: tokens}
}
