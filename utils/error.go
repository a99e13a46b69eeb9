package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// ErrorNotRecordOwner is returned when a user tries to touch another
// user's record. Handlers map it to 401.
var ErrorNotRecordOwner = errors.New("user not authorized for this record")
