package fetch

import "net/textproto"

const (
	headerAccept         = "Accept"
	headerContentType    = "Content-Type"
	headerAcceptLanguage = "Accept-Language"
	headerAuthorization  = "Authorization"

	jsonAccept       = "application/json"
	jsonContentType  = "application/json;charset=UTF-8"
	imageAccept      = "image/png"
	imageContentType = "image/png;charset=UTF-8"
)

// authorization renders the Authorization value; it is "" (not omitted) without a token.
func authorization(token string, ok bool) string {
	if !ok || token == "" {
		return ""
	}
	return "Bearer " + token
}

// JSONHeaders returns the default header set of the JSON pipeline.
func JSONHeaders(token string, ok bool) map[string]string {
	return map[string]string{
		headerAccept:        jsonAccept,
		headerContentType:   jsonContentType,
		headerAuthorization: authorization(token, ok),
	}
}

// ImageHeaders returns the default header set of the image pipeline.
func ImageHeaders(token string, ok bool, language string) map[string]string {
	return map[string]string{
		headerAccept:         imageAccept,
		headerContentType:    imageContentType,
		headerAcceptLanguage: language,
		headerAuthorization:  authorization(token, ok),
	}
}

// MergeHeaders overlays overrides on defaults. Keys are canonicalized first so
// "content-type" replaces "Content-Type".
func MergeHeaders(defaults, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[textproto.CanonicalMIMEHeaderKey(k)] = v
	}
	for k, v := range overrides {
		out[textproto.CanonicalMIMEHeaderKey(k)] = v
	}
	return out
}
