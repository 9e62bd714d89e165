// Package visualization renders preview images of an image stack with an
// extraction region overlaid. Previews never influence extracted metrics.
package visualization
