// Package widget builds the photo frame widget from the cached background
// image and renders it to PNG at the size of a widget family.
package widget
