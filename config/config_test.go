/*
 * Yat
 *
 * Copyright 2020 Yat Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package config

import (
	"testing"
)

func TestConfig(t *testing.T) {

	if res := Str(TabWidth); res != "1" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Bool(StrictEscapes); !res {
		t.Error("Unexpected result:", res)
		return
	}

	if res := Int(MaxPutback); res != 1 {
		t.Error("Unexpected result:", res)
		return
	}
}
