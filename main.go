// SPDX-License-Identifier: MPL-2.0

// Command lessonkit plays interactive terminal courses.
package main

import cmd "github.com/lessonkit/lessonkit/cmd/lessonkit"

func main() {
	cmd.Execute()
}
