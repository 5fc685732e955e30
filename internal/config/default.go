package config

import "github.com/jo-hoe/appicon/internal/sizetable"

const (
	DefaultSourcePath       = "tx-app-icon-minimal.svg"
	DefaultAndroidOutputDir = "frontend_app/android/app/src/main/res"
	DefaultIOSOutputDir     = "frontend_app/ios/Runner/Assets.xcassets/AppIcon.appiconset"
)

// DefaultConfig writes the Android launcher icons and the iOS app icon set of
// the Flutter app from the minimal SVG logo.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{Path: DefaultSourcePath},
		Targets: []TargetConfig{
			{
				Name:      "android",
				Preset:    sizetable.PresetAndroidMipmap,
				OutputDir: DefaultAndroidOutputDir,
			},
			{
				Name:      "ios",
				Preset:    sizetable.PresetIOSAppIconSet,
				OutputDir: DefaultIOSOutputDir,
			},
		},
	}
}
