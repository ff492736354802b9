package config

// Default returns the stock configuration for the Chromium ffmpeg tree.
func Default() *Config {
	return &Config{
		ExcludedObjects:     MustPatternList(defaultExcludedObjects...),
		IgnoredIncludes:     MustPatternList(defaultIgnoredIncludes...),
		AllowedLicenses:     append([]string(nil), defaultAllowedLicenses...),
		UnknownLicenseFiles: MustPatternList(defaultUnknownLicenseFiles...),
	}
}

var defaultExcludedObjects = []string{
	// Duplicate symbols: each of these compiles a file another object
	// already carries.
	"libavcodec/inverse.o",
	"libavcodec/file_open.o",
	"libavcodec/log2_tab.o",
	"libavformat/golomb_tab.o",
	"libavformat/log2_tab.o",
	"libavformat/file_open.o",

	// Dropped to trim binary size. Removing too much here still links but
	// produces a library that fails to load, so extend with care.
	"libavcodec/audioconvert.o",
	"libavcodec/resample.o",
	"libavcodec/resample2.o",
	"libavcodec/x86/dnxhd_mmx.o",
	"libavformat/sdp.o",
	"libavutil/adler32.o",
	"libavutil/audio_fifo.o",
	"libavutil/blowfish.o",
	"libavutil/cast5.o",
	"libavutil/des.o",
	"libavutil/file.o",
	"libavutil/hash.o",
	"libavutil/hmac.o",
	"libavutil/lls.o",
	"libavutil/murmur3.o",
	"libavutil/rc4.o",
	"libavutil/ripemd.o",
	"libavutil/sha512.o",
	"libavutil/tree.o",
	"libavutil/xtea.o",
	"libavutil/xga_font_data.o",
}

var defaultIgnoredIncludes = []string{
	// Generated at Chromium build time, absent from the repository.
	"config.h",
	"libavutil/avconfig.h",
	"libavutil/ffversion.h",

	// The current configure flags neither include nor generate these hard
	// coded tables, so lookups for them always miss.
	"libavcodec/aacps_tables.h",
	"libavcodec/aacps_fixed_tables.h",
	"libavcodec/aacsbr_tables.h",
	"libavcodec/aac_tables.h",
	"libavcodec/cabac_tables.h",
	"libavcodec/cbrt_tables.h",
	"libavcodec/cbrt_fixed_tables.h",
	"libavcodec/mpegaudio_tables.h",
	"libavcodec/pcm_tables.h",
	"libavcodec/sinewin_tables.h",
	"libavcodec/sinewin_fixed_tables.h",
}

// Licenses acceptable for static linking. Do not extend this list without
// legal review.
var defaultAllowedLicenses = []string{
	"BSD (3 clause) LGPL (v2.1 or later)",
	"BSL (v1) LGPL (v2.1 or later)",
	"ISC GENERATED FILE",
	"LGPL (v2.1 or later)",
	"LGPL (v2.1 or later) GENERATED FILE",
	"MIT/X11 (BSD like)",
	"Public domain LGPL (v2.1 or later)",
}

// Files permitted to report an UNKNOWN license. Do not extend this list
// without legal review.
var defaultUnknownLicenseFiles = []string{
	// Independent JPEG Group code. It names no license but permits this use.
	"libavcodec/jrevdct.c",
	"libavcodec/jfdctfst.c",
	"libavcodec/jfdctint_template.c",
}
