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
	"fmt"
	"strconv"

	"github.com/krotik/common/errorutil"
)

/*
Known configuration options for the lexer and parser.
*/
const (
	MaxPutback    = "MaxPutback"    // lookahead put-back slots; the grammar only ever needs 1
	TabWidth      = "TabWidth"      // columns per tab, used only for diagnostic column math
	StrictEscapes = "StrictEscapes" // reject unknown backslash escapes; when false they are taken literally
)

/*
DefaultConfig is the default configuration.
*/
var DefaultConfig = map[string]interface{}{
	MaxPutback:    1,
	TabWidth:      1,
	StrictEscapes: true,
}

/*
Config is the actual configuration in use.
*/
var Config map[string]interface{}

func init() {
	data := make(map[string]interface{})
	for k, v := range DefaultConfig {
		data[k] = v
	}
	Config = data
}

/*
Str reads a config value as a string value.
*/
func Str(key string) string {
	return fmt.Sprint(Config[key])
}

/*
Int reads a config value as an int value.
*/
func Int(key string) int {
	ret, err := strconv.ParseInt(fmt.Sprint(Config[key]), 10, 64)

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("could not parse config key %v: %v", key, err))

	return int(ret)
}

/*
Bool reads a config value as a boolean value.
*/
func Bool(key string) bool {
	ret, err := strconv.ParseBool(fmt.Sprint(Config[key]))

	errorutil.AssertTrue(err == nil,
		fmt.Sprintf("could not parse config key %v: %v", key, err))

	return ret
}
