// Copyright 2024 The PolyGen Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package errlist provides the error-aggregate type used throughout
// PolyGen to collect every semantic error found during one parse/link
// pass instead of failing on the first one.
package errlist

// List is a slice of error that itself implements error.
type List []error

// Error implements the error interface by joining every non-nil error
// with ", ".
func (l List) Error() string {
	var out string
	for i, e := range l {
		if e == nil {
			continue
		}
		if i != 0 && out != "" {
			out += ", "
		}
		out += e.Error()
	}
	return out
}

// Append appends err to l if it is non-nil and returns the result.
func (l List) Append(err error) List {
	if err == nil {
		return l
	}
	return append(l, err)
}

// AppendAll appends every non-nil error in errs to l and returns the
// result.
func (l List) AppendAll(errs []error) List {
	for _, e := range errs {
		l = l.Append(e)
	}
	return l
}

// ErrOrNil returns l as an error if it has any entries, else nil. This
// lets callers build up a List across a whole pass and return it
// uniformly.
func (l List) ErrOrNil() error {
	if len(l) == 0 {
		return nil
	}
	return l
}
