// SPDX-License-Identifier: Apache-2.0

package httptransport

import "net/http"

// Alert headers let clients raise a toast for the affected entity without
// parsing the body. Informational only.
const (
	headerAlert  = "X-Meetfit-Alert"
	headerError  = "X-Meetfit-Error"
	headerParams = "X-Meetfit-Params"
)

// setEntityAlert marks a successful mutation: meetfit.<entity>.<action>
// plus the affected identifier.
func setEntityAlert(h http.Header, entity, action, id string) {
	h.Set(headerAlert, "meetfit."+entity+"."+action)
	h.Set(headerParams, id)
}

// setFailureAlert marks a rejected mutation with a failure key (idexists,
// notfound, ...) and names the entity in the params header.
func setFailureAlert(h http.Header, entity, key string) {
	h.Set(headerError, "error."+key)
	h.Set(headerParams, entity)
}
