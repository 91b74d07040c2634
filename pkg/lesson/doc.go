// SPDX-License-Identifier: MPL-2.0

// Package lesson loads and runs a single interactive lesson.
//
// A lesson document is a YAML list of mappings with case-insensitive keys. An
// optional first mapping carrying a "lesson" key names the lesson; every other
// mapping is a step selected by its "category":
//
//	- Lesson: Intro
//	  Description: First steps
//	- Category: text
//	  Output: Welcome to **the shell**.
//	- Category: question
//	  Output: What command prints the working directory?
//	  Answer: pwd
//	  Hint: It is three letters long.
//	- Category: multiple choice
//	  Output: Which flag shows hidden files for ls?
//	  Choices: -a;-l;-h
//	  Answer: -a
//	- Category: shell
//	  Output: Print the word hello.
//	  Answer: hello
//
// Output is markdown. Shell steps run the learner's input with the embedded
// mvdan.cc/sh interpreter, so they behave the same on every platform.
package lesson
