// Package extract interprets recognized text from the two faces of a Peruvian
// identity document (DNI). It normalizes raw recognizer output, reads the
// machine-readable zone when present, falls back through visual-zone
// heuristics for anything the MRZ missed, resolves date candidates into
// birth/issue/expiry roles, and assembles the result into a validated record.
package extract
