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

// Package credential reads the session token from a persistent key-value store.
//
// The store is owned by the login/logout flow. Readers hold no copy of the
// token: every call to Accessor.Token goes back to the store.
package credential

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"splitspecs/internal/common"
)

// TokenKey is the fixed key the session token is stored under.
const TokenKey = "token"

// Store is a persistent string key-value store.
// GetItem returns common.ErrNotFound when the key is absent.
type Store interface {
	GetItem(key string) (string, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

// Accessor reads the current token from a Store.
type Accessor struct {
	store  Store
	logger logrus.FieldLogger
}

// NewAccessor returns an Accessor over store. A nil logger discards diagnostics.
func NewAccessor(store Store, logger logrus.FieldLogger) *Accessor {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Accessor{store: store, logger: logger}
}

// Token returns the stored token, or "" when none is stored.
// A missing entry is a normal outcome; store failures are logged and read as absence.
func (a *Accessor) Token() string {
	token, err := a.store.GetItem(TokenKey)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			a.logger.WithError(err).Warn("credential: failed to read token")
		}
		return ""
	}
	return token
}

// Present reports whether a non-empty token is stored.
func (a *Accessor) Present() bool {
	return a.Token() != ""
}
