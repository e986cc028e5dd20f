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

// Package cache provides the normalized GraphQL result cache.
//
// Results are split into entities keyed by identity ("Type:id", ROOT_QUERY,
// ROOT_MUTATION); nested identifiable objects are replaced by references
// so the same entity returned by two queries is stored once.
//
// Field policies may override how a single field of a single type is read.
// An override replaces stored data for that field only; every other field
// follows what was written.
package cache

import "os"

// Disabled controls whether writes are dropped.
// Set via SPLITSPECS_CACHE=0 environment variable.
// When true:
// - InMemoryCache.Write() is a no-op
// - Reads see only field policies (e.g. Query.isLoggedIn)
var Disabled = os.Getenv("SPLITSPECS_CACHE") == "0"

// Invalidator is implemented by all caches that support full invalidation.
type Invalidator interface {
	// Invalidate clears all entries from the cache.
	Invalidate()
}
