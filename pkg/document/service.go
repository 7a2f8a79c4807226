/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

// Service descriptor property keys.
const (
	ServiceEndpointProperty = "serviceEndpoint"
)

// Service is a thin typed view over a service descriptor entry.
type Service map[string]interface{}

// NewService wraps a raw map as a Service.
func NewService(entry map[string]interface{}) Service {
	return Service(entry)
}

// ID returns the service descriptor's id.
func (s Service) ID() string {
	return stringEntry(s[IDProperty])
}

// Type returns the service descriptor's type.
func (s Service) Type() string {
	return stringEntry(s[TypeProperty])
}

// Endpoint returns the service descriptor's serviceEndpoint.
func (s Service) Endpoint() string {
	return stringEntry(s[ServiceEndpointProperty])
}

func parseServices(entry interface{}) []Service {
	arr := interfaceArray(entry)
	if arr == nil {
		return nil
	}

	var result []Service

	for _, e := range arr {
		if m, ok := e.(map[string]interface{}); ok {
			result = append(result, NewService(m))
		}
	}

	return result
}
