package main

import "io"

// writeBody prints body exactly as fetched, plus a newline.
func writeBody(w io.Writer, body string) error {
	_, err := io.WriteString(w, body+"\n")
	return err
}
