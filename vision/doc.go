// Package vision calls the external vision-extraction service with a
// rendered page image plus textual hints, and parses its structured JSON
// response: question items, tables, and figures with 4-point normalized
// bounding polygons.
//
// The service is an LLM behind an OpenAI-compatible API, so responses are
// treated defensively: markdown code fences are stripped before parsing,
// non-list options fields are coerced to empty lists, and a page whose
// response is not valid JSON contributes nothing rather than failing the
// run. Calls are independent per page and retried on transient failures.
package vision
