// Package wk implements the WK still-image codec: a chunked, CRC-32
// verified container around two pixel pipelines — a lossless
// predictor-plus-Huffman transform and a lossy DCT transform-codec with
// intra-prediction and adaptive quantization — along with typed sidecar
// metadata (ICC profiles, Exif, XMP, and free-form custom fields).
//
// Encode and Decode are the two entry points most callers need; GetFeatures
// lets a caller inspect a stream's geometry without paying for a full pixel
// decode.
package wk
