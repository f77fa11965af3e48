// SPDX-License-Identifier: Apache-2.0

package domain

import "errors"

var ErrIDExists = errors.New("a new profile cannot already have an id")
