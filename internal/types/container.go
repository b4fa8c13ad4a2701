// Package types provides type definitions for structured data used throughout the team-extractor system.
package types

// Link is a single URL found in container content.
type Link struct {
	Href string `json:"href"`
}

// ContainerInstance is the segmented content of one "Instance" block: the
// non-link text lines plus the links that were lifted out of them.
type ContainerInstance struct {
	Text  string `json:"text"`
	Links []Link `json:"links"`
}

// Instance pairs an instance ID with its content.
type Instance struct {
	ID      string            `json:"id"`
	Content ContainerInstance `json:"content"`
}

// Container is one top-level grouping of scraped text with its instances in
// discovery order.
type Container struct {
	ID        string     `json:"id"`
	Instances []Instance `json:"instances"`
}

// ContainerMap maps container ID -> instance ID -> ContainerInstance while
// keeping the order in which containers and instances were discovered.
type ContainerMap struct {
	Containers []Container `json:"containers"`
}

// Put stores an instance, appending new containers and instances in scan
// order. Storing an existing (container, instance) pair replaces its content
// without changing its position.
func (m *ContainerMap) Put(containerID, instanceID string, content ContainerInstance) {
	for ci := range m.Containers {
		if m.Containers[ci].ID != containerID {
			continue
		}
		c := &m.Containers[ci]
		for ii := range c.Instances {
			if c.Instances[ii].ID == instanceID {
				c.Instances[ii].Content = content
				return
			}
		}
		c.Instances = append(c.Instances, Instance{ID: instanceID, Content: content})
		return
	}
	m.Containers = append(m.Containers, Container{
		ID:        containerID,
		Instances: []Instance{{ID: instanceID, Content: content}},
	})
}

// Get returns the container with the given ID.
func (m ContainerMap) Get(containerID string) (Container, bool) {
	for _, c := range m.Containers {
		if c.ID == containerID {
			return c, true
		}
	}
	return Container{}, false
}

// Instance returns the content stored for a (container, instance) pair.
func (m ContainerMap) Instance(containerID, instanceID string) (ContainerInstance, bool) {
	c, ok := m.Get(containerID)
	if !ok {
		return ContainerInstance{}, false
	}
	return c.Instance(instanceID)
}

// IDs returns the container IDs in discovery order.
func (m ContainerMap) IDs() []string {
	ids := make([]string, 0, len(m.Containers))
	for _, c := range m.Containers {
		ids = append(ids, c.ID)
	}
	return ids
}

// Len returns the number of (container, instance) entries.
func (m ContainerMap) Len() int {
	n := 0
	for _, c := range m.Containers {
		n += len(c.Instances)
	}
	return n
}

// IsEmpty reports whether the map holds no entries.
func (m ContainerMap) IsEmpty() bool {
	return m.Len() == 0
}

// Instance returns the content stored under instanceID.
func (c Container) Instance(instanceID string) (ContainerInstance, bool) {
	for _, inst := range c.Instances {
		if inst.ID == instanceID {
			return inst.Content, true
		}
	}
	return ContainerInstance{}, false
}

// Contents returns the instance contents in discovery order.
func (c Container) Contents() []ContainerInstance {
	out := make([]ContainerInstance, 0, len(c.Instances))
	for _, inst := range c.Instances {
		out = append(out, inst.Content)
	}
	return out
}
