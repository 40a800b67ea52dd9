package ecs

// StageInfo lists the systems of one stage in run order.
type StageInfo struct {
	Name    string   `yaml:"name"`
	Systems []string `yaml:"systems"`
}

// Description is a read-only snapshot of a built App, safe to hand to other
// goroutines.
type Description struct {
	Plugins   []PluginInfo `yaml:"plugins"`
	Stages    []StageInfo  `yaml:"stages"`
	Resources []string     `yaml:"resources"`
	Passes    uint64       `yaml:"passes"`
}

// Describe snapshots the App. Call it from the goroutine that drives the App.
func (a *App) Describe() (Description, error) {
	if err := a.schedule.build(); err != nil {
		return Description{}, err
	}
	d := Description{
		Plugins:   a.Plugins(),
		Resources: a.world.ResourceTypes(),
		Passes:    a.passes,
	}
	for _, stage := range allStages {
		info := StageInfo{Name: stage.String()}
		for _, sys := range a.schedule.order[stage] {
			info.Systems = append(info.Systems, sys.name)
		}
		d.Stages = append(d.Stages, info)
	}
	return d, nil
}
