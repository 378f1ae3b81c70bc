package config

const (
	defaultSeed           = 42
	defaultAssetsDir      = "."
	defaultTimeoutSeconds = 10
	defaultGridSize       = 5
	defaultSpacing        = 5.0
	defaultTileSize       = 4.0
	defaultOpacity        = 0.9
	defaultCameraZ        = 10.0
	defaultFOV            = 75.0
	defaultDragScale      = 0.02
	defaultFriction       = 0.95
	defaultDragThreshold  = 5.0
	defaultTapWindowMS    = 200
	defaultNudgeSpeed     = 0.01
	defaultStartSeconds   = 80.0
	defaultMinRate        = 0.1
	defaultMaxRate        = 1.0
	defaultSlowdown       = 0.02
	defaultSpeedup        = 0.05
	defaultVolume         = 1.0
	defaultWidth          = 1280
	defaultHeight         = 720
	defaultStars          = 2000
	defaultTextureMaxSize = 512
	defaultTextureWorkers = 4
	defaultOverlayCacheMB = 256
	defaultLogFormat      = "auto"
	defaultLogLevel       = "info"
)

// OverlayMaxSize caps the longest edge of full-resolution overlay images.
const OverlayMaxSize = 4096

// MinOverlayCacheMB is the smallest overlay cache that admits one
// OverlayMaxSize square RGBA image.
const MinOverlayCacheMB = OverlayMaxSize * OverlayMaxSize * 4 >> 20

// Default returns a Config populated with the gallery defaults.
func Default() Config {
	return Config{
		Seed: defaultSeed,

		Assets: Assets{
			Dir:            defaultAssetsDir,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Grid: Grid{
			Size:     defaultGridSize,
			Spacing:  defaultSpacing,
			TileSize: defaultTileSize,
			Opacity:  defaultOpacity,
		},
		Camera: Camera{
			Z:   defaultCameraZ,
			FOV: defaultFOV,
		},
		Input: Input{
			DragScale:     defaultDragScale,
			Friction:      defaultFriction,
			DragThreshold: defaultDragThreshold,
			TapWindowMS:   defaultTapWindowMS,
			NudgeSpeed:    defaultNudgeSpeed,
		},
		Audio: Audio{
			Enabled:      true,
			StartSeconds: defaultStartSeconds,
			MinRate:      defaultMinRate,
			MaxRate:      defaultMaxRate,
			Slowdown:     defaultSlowdown,
			Speedup:      defaultSpeedup,
			Volume:       defaultVolume,
		},
		Render: Render{
			Width:      defaultWidth,
			Height:     defaultHeight,
			Stars:      defaultStars,
			Distortion: true,
		},
		Texture: Texture{
			MaxSize:        defaultTextureMaxSize,
			Workers:        defaultTextureWorkers,
			OverlayCacheMB: defaultOverlayCacheMB,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
