// Copyright (c) 2026 Adminkit. All rights reserved.

package auth

// # Password Policy

const (
	// PasswordMinLength is the minimum accepted password length.
	PasswordMinLength = 8

	// PasswordMaxLength caps input at the bcrypt limit of 72 bytes.
	PasswordMaxLength = 72
)
