// Package translate provides text translation backends used to render
// Russian transcripts in another language.
package translate
