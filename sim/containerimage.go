package sim

// ImageLayer identifies the abstraction layer a ContainerImage belongs to.
type ImageLayer string

const (
	LayerOperatingSystem ImageLayer = "Operating System"
	LayerRuntime         ImageLayer = "Runtime"
	LayerApplication     ImageLayer = "Application"
)

// ContainerImage is one pullable image layer hosted by a ContainerRegistry.
// Images with identical Name are interchangeable across registries (spec §3).
type ContainerImage struct {
	ID                int
	Size              int
	Name              string
	Layer             ImageLayer
	ContainerRegistry *ContainerRegistry
}

func (i *ContainerImage) EntityID() int { return i.ID }
