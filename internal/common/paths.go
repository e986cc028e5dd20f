// Copyright 2024 SplitSpecs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"path"
	"strings"
)

// RelPath cleans a slash-separated path and strips leading "./" and "/"
// so it is relative to a project root. The root itself is "".
func RelPath(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	p = strings.TrimPrefix(p, "/")
	return p
}

// SplitPath splits a path into its components
func SplitPath(p string) []string {
	p = RelPath(p)
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
