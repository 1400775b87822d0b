package config

var Presets = map[string]map[string]*Config{
	"sandbox": {
		"drop": {
			Scene: "sandbox", Dt: 0.01, Duration: 10.0,
		},
		"feather": {
			Scene: "sandbox", Dt: 0.01, Duration: 15.0,
			Params: map[string]float64{"mass": 0.1, "damping": 0.9},
		},
		"moon": {
			Scene: "sandbox", Dt: 0.01, Duration: 20.0,
			Params: map[string]float64{"gravity": 1.62},
		},
	},
	"ballistic": {
		"pistol": {
			Scene: "ballistic", Dt: 0.01, Duration: 15.0,
			Params: map[string]float64{"ammo": 0},
		},
		"artillery": {
			Scene: "ballistic", Dt: 0.01, Duration: 30.0,
			Params: map[string]float64{"ammo": 1, "max_range": 250},
		},
		"fireball": {
			Scene: "ballistic", Dt: 0.01, Duration: 20.0,
			Params: map[string]float64{"ammo": 2, "timeout": 8},
		},
		"laser": {
			Scene: "ballistic", Dt: 0.005, Duration: 5.0,
			Params: map[string]float64{"ammo": 3, "fire_interval": 0.2},
		},
	},
	"bungee": {
		"gentle": {
			Scene: "bungee", Dt: 0.01, Duration: 30.0,
		},
		"stiff": {
			Scene: "bungee", Dt: 0.005, Duration: 20.0,
			Params: map[string]float64{"spring_constant": 12},
		},
		"heavy": {
			Scene: "bungee", Dt: 0.01, Duration: 30.0,
			Params: map[string]float64{"mass": 6, "spring_constant": 8},
		},
	},
	"flotsam": {
		"calm": {
			Scene: "flotsam", Dt: 0.01, Duration: 20.0,
		},
		"crowded": {
			Scene: "flotsam", Dt: 0.01, Duration: 20.0, Seed: 7,
			Params: map[string]float64{"count": 24},
		},
	},
	"bridge": {
		"light": {
			Scene: "bridge", Dt: 0.005, Duration: 15.0,
			Params: map[string]float64{"load_mass": 4},
		},
		"loaded": {
			Scene: "bridge", Dt: 0.005, Duration: 15.0,
			Params: map[string]float64{"load_mass": 10},
		},
	},
	"fireworks": {
		"festival": {
			Scene: "fireworks", Dt: 0.01, Duration: 20.0, Seed: 3,
			Params: map[string]float64{"launch_interval": 0.5},
		},
		"sparse": {
			Scene: "fireworks", Dt: 0.01, Duration: 30.0,
			Params: map[string]float64{"launch_interval": 2},
		},
	},
}

func GetPreset(scene, preset string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	return names
}
