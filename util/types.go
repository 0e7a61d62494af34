/*
 * Yat
 *
 * Copyright 2020 Yat Authors. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package util

/*
Logger is an external object to which the parser releases its log
messages - a driver embedding this frontend can collect diagnostics
without installing an io.Writer shim.
*/
type Logger interface {

	/*
		LogError adds a new error log message.
	*/
	LogError(v ...interface{})

	/*
		LogInfo adds a new info log message.
	*/
	LogInfo(v ...interface{})

	/*
		LogDebug adds a new debug log message.
	*/
	LogDebug(v ...interface{})
}
