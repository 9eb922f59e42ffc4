package sway

import "fmt"

// Mirror replicates the node to the remote executor. Parents are mirrored
// first, then the node is created and connected to each parent, then any
// dependents are mirrored so remote updates reach them. Mirroring is
// one-way: a second call is a no-op.
func (n *Node) Mirror() error {
	if n.native {
		return nil
	}
	if err := n.mirrorUp(); err != nil {
		return err
	}
	return n.mirrorDown()
}

func (n *Node) mirrorUp() error {
	if n.native {
		return nil
	}
	if n.disposed {
		return fmt.Errorf("sway: mirror disposed %s node: %w", n.Kind, ErrInvalidOperation)
	}
	b := n.graph.bridge
	if !b.Available() {
		return b.unavailable("mirror " + n.Kind.String())
	}
	for _, p := range n.parents {
		if err := p.mirrorUp(); err != nil {
			return err
		}
	}
	if n.Kind == KindTracking {
		if err := n.trackDest.mirrorUp(); err != nil {
			return err
		}
	}

	cfg, err := n.remoteConfig()
	if err != nil {
		return err
	}
	tag := b.newTag()
	if err := b.CreateNode(tag, cfg); err != nil {
		return err
	}
	n.tag = tag
	n.native = true

	for _, p := range n.parents {
		if err := b.ConnectNodes(p.tag, n.tag); err != nil {
			return err
		}
	}
	if n.Kind == KindProps && n.hasTarget {
		return b.ConnectToTarget(n.tag, n.target)
	}
	return nil
}

func (n *Node) mirrorDown() error {
	for _, c := range n.children {
		if c.native || c.disposed || (c.Kind == KindTracking && !c.trackRemote) {
			continue
		}
		if err := c.mirrorUp(); err != nil {
			return err
		}
		if err := c.mirrorDown(); err != nil {
			return err
		}
	}
	return nil
}

// remoteConfig describes the node for createNode. Parents must already
// carry tags. Keys outside the bridge allow-lists fail with
// ErrUnsupportedProperty.
func (n *Node) remoteConfig() (map[string]any, error) {
	cfg := map[string]any{"type": n.Kind.String()}
	switch n.Kind {
	case KindValue:
		cfg["value"] = n.value
		cfg["offset"] = n.offset
	case KindAddition, KindSubtraction, KindMultiplication, KindDivision:
		cfg["input"] = []int{n.parents[0].tag, n.parents[1].tag}
	case KindModulo:
		cfg["input"] = n.parents[0].tag
		cfg["modulus"] = n.modulus
	case KindDiffClamp:
		cfg["input"] = n.parents[0].tag
		cfg["min"] = n.min
		cfg["max"] = n.max
	case KindInterpolation:
		for k, v := range n.interp.remoteConfig() {
			cfg[k] = v
		}
		if err := n.graph.bridge.validateInterpolationConfig(cfg); err != nil {
			return nil, err
		}
		cfg["input"] = n.parents[0].tag
	case KindColor:
		cfg["r"] = n.parents[0].tag
		cfg["g"] = n.parents[1].tag
		cfg["b"] = n.parents[2].tag
		cfg["a"] = n.parents[3].tag
	case KindTracking:
		if n.trackAnimID == 0 {
			n.trackAnimID = n.graph.bridge.newAnimationID()
		}
		cfg["animationId"] = n.trackAnimID
		cfg["toValue"] = n.parents[0].tag
		cfg["value"] = n.trackDest.tag
		cfg["animationConfig"] = n.trackFactory(0).RemoteConfig(1)
	case KindProps:
		return n.propsRemoteConfig(cfg)
	}
	return cfg, nil
}
