// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package layout

import (
	"errors"
	"fmt"
)

// ErrTemplateNotFound is returned by the registry for an unknown template id.
var ErrTemplateNotFound = errors.New("layout: template not found")

// ValidationError reports malformed template input: non-positive or
// non-finite geometry, or an unsupported canvas unit. It is the only error
// the rendering core surfaces; asset and font problems degrade silently.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("layout: invalid %s: %s", e.Field, e.Reason)
}
