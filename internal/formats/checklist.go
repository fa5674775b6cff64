package formats

// DefaultChecklist lists the formats the downstream library decodes locally. A
// registry snapshot that loses any of them is reported, not rejected.
func DefaultChecklist() []string {
	return []string{
		"GL_COMPRESSED_RGBA_BPTC_UNORM",
		"GL_COMPRESSED_SRGB_ALPHA_BPTC_UNORM",
		"GL_COMPRESSED_RGB_BPTC_SIGNED_FLOAT",
		"GL_COMPRESSED_RGB_BPTC_UNSIGNED_FLOAT",
		"GL_COMPRESSED_RGB_S3TC_DXT1_EXT",
		"GL_COMPRESSED_RGBA_S3TC_DXT1_EXT",
		"GL_COMPRESSED_RGBA_S3TC_DXT3_EXT",
		"GL_COMPRESSED_RGBA_S3TC_DXT5_EXT",
		"GL_COMPRESSED_RGB8_ETC2",
		"GL_COMPRESSED_SRGB8_ETC2",
		"GL_COMPRESSED_RGB8_PUNCHTHROUGH_ALPHA1_ETC2",
		"GL_COMPRESSED_SRGB8_PUNCHTHROUGH_ALPHA1_ETC2",
		"GL_COMPRESSED_RGBA8_ETC2_EAC",
		"GL_COMPRESSED_SRGB8_ALPHA8_ETC2_EAC",
		"GL_COMPRESSED_R11_EAC",
		"GL_COMPRESSED_SIGNED_R11_EAC",
		"GL_COMPRESSED_RG11_EAC",
		"GL_COMPRESSED_SIGNED_RG11_EAC",
	}
}
