// Package normalize turns the API's heterogeneous list envelopes into a canonical ordered list.
//
// List endpoints answer with one of several shapes:
//
//	[ ... ]                         Bare
//	{"results": [ ... ], "count": n} Paginated
//	{"items": [ ... ]}              Itemized
//	{"data": [ ... ]}               Wrapped
//	{"playlists": [ ... ]}          Named
//
// [Decode] is the explicit tagged-union decoder: it reports which variant matched and fails with
// [shared.ErrMalformedResponse] otherwise. When a payload matches more than one variant the first in
// this order wins: bare array, results, items, data, the declared named fields in declaration order,
// then the single remaining array-valued field.
//
// [Normalizer] wraps Decode for callers that treat "no data" and "malformed" the same way: it never fails,
// returning an empty list and logging a diagnostic instead.
package normalize
