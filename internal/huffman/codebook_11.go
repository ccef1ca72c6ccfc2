package huffman

// cb11Codes is codebook 11, indexed by 17*|x| + |y|. The value 16 is the
// escape: the magnitude follows the sign bits as an escape sequence.
var cb11Codes = [289]Codeword{
	// x = 0
	{0x000, 4}, {0x006, 5}, {0x019, 6}, {0x03d, 7}, {0x09c, 8}, {0x0c6, 8},
	{0x1a7, 9}, {0x390, 10}, {0x3c2, 10}, {0x3df, 10}, {0x7e6, 11}, {0x7f3, 11},
	{0xffb, 12}, {0x7ec, 11}, {0xffa, 12}, {0xffe, 12}, {0x38e, 10},
	// x = 1
	{0x005, 5}, {0x001, 4}, {0x008, 5}, {0x014, 6}, {0x037, 7}, {0x042, 7},
	{0x092, 8}, {0x0af, 8}, {0x191, 9}, {0x1a5, 9}, {0x1b5, 9}, {0x39e, 10},
	{0x3c0, 10}, {0x3a2, 10}, {0x3cd, 10}, {0x7d6, 11}, {0x0ae, 8},
	// x = 2
	{0x017, 6}, {0x007, 5}, {0x009, 5}, {0x018, 6}, {0x039, 7}, {0x040, 7},
	{0x08e, 8}, {0x0a3, 8}, {0x0b8, 8}, {0x199, 9}, {0x1ac, 9}, {0x1c1, 9},
	{0x3b1, 10}, {0x396, 10}, {0x3be, 10}, {0x3ca, 10}, {0x09d, 8},
	// x = 3
	{0x03c, 7}, {0x015, 6}, {0x016, 6}, {0x01a, 6}, {0x03b, 7}, {0x044, 7},
	{0x091, 8}, {0x0a5, 8}, {0x0be, 8}, {0x196, 9}, {0x1ae, 9}, {0x1b9, 9},
	{0x3a1, 10}, {0x391, 10}, {0x3a5, 10}, {0x3d5, 10}, {0x094, 8},
	// x = 4
	{0x09a, 8}, {0x036, 7}, {0x038, 7}, {0x03a, 7}, {0x041, 7}, {0x08c, 8},
	{0x09b, 8}, {0x0b0, 8}, {0x0c3, 8}, {0x19e, 9}, {0x1ab, 9}, {0x1bc, 9},
	{0x39f, 10}, {0x38f, 10}, {0x3a9, 10}, {0x3cf, 10}, {0x093, 8},
	// x = 5
	{0x0bf, 8}, {0x03e, 7}, {0x03f, 7}, {0x043, 7}, {0x045, 7}, {0x09e, 8},
	{0x0a7, 8}, {0x0b9, 8}, {0x194, 9}, {0x1a2, 9}, {0x1ba, 9}, {0x1c3, 9},
	{0x3a6, 10}, {0x3a7, 10}, {0x3bb, 10}, {0x3d4, 10}, {0x09f, 8},
	// x = 6
	{0x1a0, 9}, {0x08f, 8}, {0x08d, 8}, {0x090, 8}, {0x098, 8}, {0x0a6, 8},
	{0x0b6, 8}, {0x0c4, 8}, {0x19f, 9}, {0x1af, 9}, {0x1bf, 9}, {0x399, 10},
	{0x3bf, 10}, {0x3b4, 10}, {0x3c9, 10}, {0x3e7, 10}, {0x0a8, 8},
	// x = 7
	{0x1b6, 9}, {0x0ab, 8}, {0x0a4, 8}, {0x0aa, 8}, {0x0b2, 8}, {0x0c2, 8},
	{0x0c5, 8}, {0x198, 9}, {0x1a4, 9}, {0x1b8, 9}, {0x38c, 10}, {0x3a4, 10},
	{0x3c4, 10}, {0x3c6, 10}, {0x3dd, 10}, {0x3e8, 10}, {0x0ad, 8},
	// x = 8
	{0x3af, 10}, {0x192, 9}, {0x0bd, 8}, {0x0bc, 8}, {0x18e, 9}, {0x197, 9},
	{0x19a, 9}, {0x1a3, 9}, {0x1b1, 9}, {0x38d, 10}, {0x398, 10}, {0x3b7, 10},
	{0x3d3, 10}, {0x3d1, 10}, {0x3db, 10}, {0x7dd, 11}, {0x0b4, 8},
	// x = 9
	{0x3de, 10}, {0x1a9, 9}, {0x19b, 9}, {0x19c, 9}, {0x1a1, 9}, {0x1aa, 9},
	{0x1ad, 9}, {0x1b3, 9}, {0x38b, 10}, {0x3b2, 10}, {0x3b8, 10}, {0x3ce, 10},
	{0x3e1, 10}, {0x3e0, 10}, {0x7d2, 11}, {0x7e5, 11}, {0x0b7, 8},
	// x = 10
	{0x7e3, 11}, {0x1bb, 9}, {0x1a8, 9}, {0x1a6, 9}, {0x1b0, 9}, {0x1b2, 9},
	{0x1b7, 9}, {0x39b, 10}, {0x39a, 10}, {0x3ba, 10}, {0x3b5, 10}, {0x3d6, 10},
	{0x7d7, 11}, {0x3e4, 10}, {0x7d8, 11}, {0x7ea, 11}, {0x0ba, 8},
	// x = 11
	{0x7e8, 11}, {0x3a0, 10}, {0x1bd, 9}, {0x1b4, 9}, {0x38a, 10}, {0x1c4, 9},
	{0x392, 10}, {0x3aa, 10}, {0x3b0, 10}, {0x3bc, 10}, {0x3d7, 10}, {0x7d4, 11},
	{0x7dc, 11}, {0x7db, 11}, {0x7d5, 11}, {0x7f0, 11}, {0x0c1, 8},
	// x = 12
	{0x7fb, 11}, {0x3c8, 10}, {0x3a3, 10}, {0x395, 10}, {0x39d, 10}, {0x3ac, 10},
	{0x3ae, 10}, {0x3c5, 10}, {0x3d8, 10}, {0x3e2, 10}, {0x3e6, 10}, {0x7e4, 11},
	{0x7e7, 11}, {0x7e0, 11}, {0x7e9, 11}, {0x7f7, 11}, {0x190, 9},
	// x = 13
	{0x7f2, 11}, {0x393, 10}, {0x1be, 9}, {0x1c0, 9}, {0x394, 10}, {0x397, 10},
	{0x3ad, 10}, {0x3c3, 10}, {0x3c1, 10}, {0x3d2, 10}, {0x7da, 11}, {0x7d9, 11},
	{0x7df, 11}, {0x7eb, 11}, {0x7f4, 11}, {0x7fa, 11}, {0x195, 9},
	// x = 14
	{0x7f8, 11}, {0x3bd, 10}, {0x39c, 10}, {0x3ab, 10}, {0x3a8, 10}, {0x3b3, 10},
	{0x3b9, 10}, {0x3d0, 10}, {0x3e3, 10}, {0x3e5, 10}, {0x7e2, 11}, {0x7de, 11},
	{0x7ed, 11}, {0x7f1, 11}, {0x7f9, 11}, {0x7fc, 11}, {0x193, 9},
	// x = 15
	{0xffd, 12}, {0x3dc, 10}, {0x3b6, 10}, {0x3c7, 10}, {0x3cc, 10}, {0x3cb, 10},
	{0x3d9, 10}, {0x3da, 10}, {0x7d3, 11}, {0x7e1, 11}, {0x7ee, 11}, {0x7ef, 11},
	{0x7f5, 11}, {0x7f6, 11}, {0xffc, 12}, {0xfff, 12}, {0x19d, 9},
	// x = 16
	{0x1c2, 9}, {0x0b5, 8}, {0x0a1, 8}, {0x096, 8}, {0x097, 8}, {0x095, 8},
	{0x099, 8}, {0x0a0, 8}, {0x0a2, 8}, {0x0ac, 8}, {0x0a9, 8}, {0x0b1, 8},
	{0x0b3, 8}, {0x0bb, 8}, {0x0c0, 8}, {0x18f, 9}, {0x004, 5},
}
