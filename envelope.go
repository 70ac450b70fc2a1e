// ./envelope.go
package astroeph

/*
This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

import (
	"bytes"
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// StatusError marks a failed call in an Envelope.
const StatusError int32 = -1

// Envelope is the status/diagnostic/payload triple of one call. A
// non-negative Status carries the flags actually honoured, which callers
// compare with the flags they asked for to detect a source fallback.
type Envelope struct {
	Status     int32     `json:"status"`
	Values     []float64 `json:"values"`
	Diagnostic string    `json:"diagnostic,omitempty"`
}

// NewEnvelope wraps a successful result.
func NewEnvelope(values []float64, status int32, diag string) Envelope {
	return Envelope{Status: status, Values: values, Diagnostic: diag}
}

// FromError wraps a failed call.
func FromError(err error) Envelope {
	return Envelope{Status: StatusError, Diagnostic: err.Error()}
}

// OK reports whether the call succeeded.
func (e Envelope) OK() bool { return e.Status != StatusError }

// wireEnvelope has no marshaling methods of its own.
type wireEnvelope Envelope

// MarshalBinary encodes the envelope as MessagePack, reusing the JSON
// field names.
func (e Envelope) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(wireEnvelope(e)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes an envelope written by MarshalBinary.
func (e *Envelope) UnmarshalBinary(data []byte) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode((*wireEnvelope)(e))
}

// MarshalJSON keeps Values an array for failed calls.
func (e Envelope) MarshalJSON() ([]byte, error) {
	w := wireEnvelope(e)
	if w.Values == nil {
		w.Values = []float64{}
	}
	return json.Marshal(w)
}
