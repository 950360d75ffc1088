package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user configuration directory
const AppName = "audiocycle"

// IsWindows reports whether the process runs on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// FileExists reports whether path exists and is not a directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ConfigDir returns the per-user configuration directory, %AppData%\audiocycle on Windows.
// Falls back to ./config when the user directory cannot be determined.
func ConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "config"
	}
	return filepath.Join(base, AppName)
}

// ExpandEnv expands $VAR and ${VAR}, plus %VAR% on Windows
func ExpandEnv(s string) string {
	if IsWindows() {
		s = expandPercent(s)
	}
	return os.ExpandEnv(s)
}

func expandPercent(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			out = append(out, s[i])
			continue
		}
		end := -1
		for j := i + 1; j < len(s); j++ {
			if s[j] == '%' {
				end = j
				break
			}
		}
		if end <= i+1 {
			out = append(out, s[i])
			continue
		}
		if v, ok := os.LookupEnv(s[i+1 : end]); ok {
			out = append(out, v...)
		} else {
			out = append(out, s[i:end+1]...)
		}
		i = end
	}
	return string(out)
}
