// Package codeanalysis provides rules that catch likely mistakes rather than
// layout problems.
package codeanalysis
