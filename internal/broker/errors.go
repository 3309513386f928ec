// SPDX-License-Identifier: BSD-3-Clause
// Copyright (c) 2025 Pierre Jay

package broker

import "fmt"

// UnknownTopicError describes a topic that does not match any recognized
// category. Ingress.Dispatch does not return or log it: such topics are
// dropped silently, since spec §4.4 only defines behavior for the five
// listed categories.
type UnknownTopicError struct {
	Topic string
}

func (e *UnknownTopicError) Error() string {
	return fmt.Sprintf("unrecognized topic %q", e.Topic)
}

// UnknownCommandError is returned for DMX/Command/<name> where name is
// not one of On/Off/Dim/Stop/Set.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unrecognized command %q", e.Name)
}
