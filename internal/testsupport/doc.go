// Package testsupport provides fixtures and stubs shared by package tests.
package testsupport
