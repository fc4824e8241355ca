// Package deps reports availability of the external host tools diagterm
// uses: journalctl, dmesg, and systemctl.
package deps
