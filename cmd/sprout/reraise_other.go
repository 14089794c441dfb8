//go:build !unix

package main

import "os"

func reraise(os.Signal) {}
