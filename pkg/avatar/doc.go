// Package avatar turns an uploaded picture into the square JPEG stored on a
// profile. The crop geometry matches the in-browser cropper: the image is
// centred on the output square, panned by the crop offset and zoomed by a
// factor clamped to [0.5, 3].
package avatar
