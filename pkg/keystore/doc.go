// Package keystore provides byte-addressable access to the terminal's
// pre-shared key.
//
// The key lives in a small serial EEPROM; the Authentication Controller
// reads it one byte per completion, 16 consecutive addresses starting at
// PSKBase, at the start of every session. Provision derives the
// installed PSK from a master secret so a compromised terminal never
// exposes the fleet key.
package keystore
