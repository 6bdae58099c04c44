package ticketreg

import "strings"

// combinedTicketAttributes merges a ticket's authentication attributes with
// its principal attributes. Authentication attributes win key collisions;
// principal attributes fill in only keys absent from them. Variants without
// authentication data yield an empty map.
func combinedTicketAttributes(t Ticket) map[string][]string {
	auth := authenticationOf(t)
	if auth == nil {
		return map[string][]string{}
	}
	merged := make(map[string][]string, len(auth.Attributes)+len(auth.PrincipalAttributes))
	for key, values := range auth.Attributes {
		merged[key] = append([]string(nil), values...)
	}
	for key, values := range auth.PrincipalAttributes {
		if _, ok := merged[key]; !ok {
			merged[key] = append([]string(nil), values...)
		}
	}
	return merged
}

// collectAndDigestTicketAttributes builds the ticket's merged attribute map
// and, when the cipher is enabled, digests every key and every value. The
// digested form is what equality search compares against, so encrypted
// session data never needs decrypting to answer attribute queries.
func (r *Registry) collectAndDigestTicketAttributes(t Ticket) map[string][]string {
	merged := combinedTicketAttributes(t)
	if !r.cipherEnabled() {
		return merged
	}
	digested := make(map[string][]string, len(merged))
	for key, values := range merged {
		out := make([]string, len(values))
		for i, v := range values {
			out[i] = r.digestValue(v)
		}
		digested[r.digest(key)] = out
	}
	return digested
}

// digestValue digests an attribute value for equality search. Values are
// case-folded before hashing so the match stays case-insensitive even when
// only digests are comparable; ticket ids keep the plain digest.
func (r *Registry) digestValue(value string) string {
	if !r.cipherEnabled() {
		return value
	}
	return r.digest(strings.ToLower(value))
}

// matchesAttributeQuery reports whether the ticket's digested attributes
// satisfy the query: any query key (digested) present in the map, with any
// digested candidate value equal (case-insensitively) to any stored value
// under that key.
func (r *Registry) matchesAttributeQuery(t Ticket, query map[string][]string) bool {
	attributes := r.collectAndDigestTicketAttributes(t)
	for key, candidates := range query {
		stored, ok := attributes[r.digest(key)]
		if !ok {
			continue
		}
		for _, candidate := range candidates {
			digested := r.digestValue(candidate)
			for _, value := range stored {
				if strings.EqualFold(value, digested) {
					return true
				}
			}
		}
	}
	return false
}
