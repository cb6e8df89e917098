// Package apimodel contains the request bodies and resource paths of the GA4GH API versions that
// the compliance suites exercise.
//
// Responses are not modeled here. Tests inspect them as generic JSON so that a malformed response
// can still be scored field by field.
package apimodel
