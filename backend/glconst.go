package backend

// Native constants missing from github.com/gogpu/wgpu/hal/gles/gl.
const (
	glAlpha          = 0x1906
	glLuminance      = 0x1909
	glLuminanceAlpha = 0x190A
	glStencilIndex   = 0x1901
	glGreen          = 0x1904

	glUnsignedShort565       = 0x8363
	glUnsignedShort5551      = 0x8034
	glUnsignedShort4444      = 0x8033
	glUnsignedInt2101010Rev  = 0x8368
	glUnsignedInt10F11F11F   = 0x8C3B
	glUnsignedInt5999Rev     = 0x8C3E
	glFloat32UnsignedInt248  = 0x8DAD
	glRGB565                 = 0x8D62
	glRGB5A1                 = 0x8057
	glRGBA4                  = 0x8056
	glR11FG11FB10F           = 0x8C3A
	glRGB9E5                 = 0x8C3D
	glRGB10A2                = 0x8059
	glAlpha8                 = 0x803C
	glLuminance8             = 0x8040
	glLuminance8Alpha8       = 0x8045
	glDepthComponent32F      = 0x8CAC
	glStencilIndex8          = 0x8D48
	glCompressedRGBDXT1      = 0x83F0
	glCompressedRGBADXT1     = 0x83F1
	glCompressedRGBADXT3     = 0x83F2
	glCompressedRGBADXT5     = 0x83F3
	glETC1RGB8               = 0x8D64
	glCompressedRGB8ETC2     = 0x9274
	glCompressedRGBA8ETC2EAC = 0x9278
	glCompressedRGBABPTC     = 0x8E8C

	glTextureSwizzleR = 0x8E42
	glTextureSwizzleG = 0x8E43
	glTextureSwizzleB = 0x8E44
	glTextureSwizzleA = 0x8E45

	glTessControlShader    = 0x8E88
	glTessEvaluationShader = 0x8E87
	glGeometryShader       = 0x8DD9
	glPatches              = 0x000E
	glPatchVertices        = 0x8E72

	glVertexShaderBit         = 0x00000001
	glFragmentShaderBit       = 0x00000002
	glGeometryShaderBit       = 0x00000004
	glTessControlShaderBit    = 0x00000008
	glTessEvaluationShaderBit = 0x00000010
	glComputeShaderBit        = 0x00000020
	glProgramSeparable        = 0x8258

	glSamplesPassed        = 0x8914
	glAnySamplesPassed     = 0x8C2F
	glTimeElapsed          = 0x88BF
	glTimestamp            = 0x8E28
	glQueryResult          = 0x8866
	glQueryResultAvailable = 0x8867

	glActiveUniformBlocks         = 0x8A36
	glUniformBlockBinding         = 0x8A3F
	glUniformBlockDataSize        = 0x8A40
	glUniformBlockActiveUniforms  = 0x8A42
	glShaderStorageBlock          = 0x92E6
	glActiveResources             = 0x92F5
	glDrawIndirectBuffer          = 0x8F3F
	glAtomicCounterBuffer         = 0x92C0
	glNumExtensions               = 0x821D
	glInvalidIndex         uint32 = 0xFFFFFFFF

	glPolygonOffsetFill     = 0x8037
	glMultisample           = 0x809D
	glSampleAlphaToCoverage = 0x809E

	glBlendAdvancedCoherent = 0x9285
	glMultiply              = 0x9294
	glScreen                = 0x9295
	glOverlay               = 0x9296
	glDarken                = 0x9297
	glLighten               = 0x9298
	glColorDodge            = 0x9299
	glColorBurn             = 0x929A
	glHardLight             = 0x929B
	glSoftLight             = 0x929C
	glDifference            = 0x929E
	glExclusion             = 0x92A0

	glReadOnly  = 0x88B8
	glWriteOnly = 0x88B9
	glReadWrite = 0x88BA

	glFloatVec2        = 0x8B50
	glFloatVec3        = 0x8B51
	glFloatVec4        = 0x8B52
	glIntVec2          = 0x8B53
	glIntVec3          = 0x8B54
	glIntVec4          = 0x8B55
	glBool             = 0x8B56
	glBoolVec2         = 0x8B57
	glBoolVec3         = 0x8B58
	glBoolVec4         = 0x8B59
	glFloatMat2        = 0x8B5A
	glFloatMat3        = 0x8B5B
	glFloatMat4        = 0x8B5C
	glSampler2D        = 0x8B5E
	glSampler3D        = 0x8B5F
	glSamplerCube      = 0x8B60
	glSampler2DShadow  = 0x8B62
	glSampler2DArray   = 0x8DC1
	glUnsignedIntVec2  = 0x8DC6
	glUnsignedIntVec3  = 0x8DC7
	glUnsignedIntVec4  = 0x8DC8
	glImage2D          = 0x904D
	glSampler2DMS      = 0x9108
	glUnsignedIntImage = 0x9063

	// NV_path_rendering.
	glPathStrokeWidthNV         = 0x9075
	glPathInitialEndCapNV       = 0x9077
	glPathTerminalEndCapNV      = 0x9078
	glPathJoinStyleNV           = 0x9079
	glPathMiterLimitNV          = 0x907A
	glPathObjectBoundingBoxNV   = 0x908D
	glCountUpNV                 = 0x9088
	glClosePathNV               = 0x00
	glMoveToNV                  = 0x02
	glCubicCurveToNV            = 0x0C
	glRoundNV                   = 0x90A4
	glFlat                      = 0x1D00
	glMiterRevertNV             = 0x90A7
)
