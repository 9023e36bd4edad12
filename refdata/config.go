package refdata

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromYAML 从 YAML 文件加载参考表。文件中出现的表整体覆盖内置默认值，
// 未出现的表沿用 Default()。加载发生在服务启动时，失败应视为致命错误。
func LoadFromYAML(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read refdata file: %w", err)
	}

	var loaded Tables
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse refdata yaml: %w", err)
	}

	t := Default()
	if loaded.LocationCoords != nil {
		t.LocationCoords = loaded.LocationCoords
	}
	if loaded.HazardLevels != nil {
		t.HazardLevels = loaded.HazardLevels
	}
	if loaded.CompoundClasses != nil {
		t.CompoundClasses = loaded.CompoundClasses
	}
	if loaded.RegionBans != nil {
		t.RegionBans = loaded.RegionBans
	}
	if loaded.Transforms != nil {
		t.Transforms = loaded.Transforms
	}
	return t, nil
}
