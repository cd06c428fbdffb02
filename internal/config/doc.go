// Package config defines the photo-frame settings and helpers to load,
// validate and save them in YAML format.
//
// Values read from the settings file can be overridden by PHOTO_FRAME_*
// environment variables. The storage kind is chosen here, once, and injected
// into the cache rather than inferred from where the program is installed.
package config
