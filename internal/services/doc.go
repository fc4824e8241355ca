// Package services lists running systemd units for the services view.
package services
