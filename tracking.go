package sway

import "fmt"

// Track makes dest chase the live value of source. Every time source changes
// on the calling side, dest is re-animated with factory(source value). When
// the factory produces remote animations the tracking node is mirrored and
// the remote executor does the chasing; dest then refuses local writes until
// StopTracking. A local factory keeps the tracking node on the calling side
// even when source is mirrored.
//
// Any previous tracking on dest is stopped.
func (g *Graph) Track(dest, source *Node, factory func(toValue float64) Animation, onEnd func(Result)) (*Node, error) {
	if dest.Kind != KindValue {
		return nil, fmt.Errorf("sway: Track into %s node: %w", dest.Kind, ErrInvalidOperation)
	}
	if factory == nil {
		return nil, fmt.Errorf("sway: Track needs an animation factory: %w", ErrInvalidOperation)
	}
	t := &Node{
		Kind:         KindTracking,
		graph:        g,
		trackDest:    dest,
		trackFactory: factory,
		trackOnEnd:   onEnd,
		trackRemote:  factory(source.Value()).UsesRemoteDriver(),
	}
	dest.StopTracking()
	dest.tracking = t

	if !t.trackRemote {
		attach(t, source)
		t.updateTracking()
		return t, nil
	}
	if err := g.link(t, source); err != nil {
		dest.tracking = nil
		return nil, err
	}
	if err := t.Mirror(); err != nil {
		dest.tracking = nil
		return nil, err
	}
	return t, nil
}

// updateTracking retargets the destination on the calling side. Mirrored
// tracking nodes are driven remotely.
func (n *Node) updateTracking() {
	if n.native || n.disposed {
		return
	}
	to := n.parents[0].Value()
	if err := n.trackDest.animate(n.trackFactory(to), 1, n.trackOnEnd); err != nil {
		n.graph.logger().Error("sway: retarget tracking", "err", err)
	}
}

// StopTracking ends tracking into a value node and disposes the tracking node.
func (n *Node) StopTracking() {
	t := n.tracking
	if t == nil {
		return
	}
	n.tracking = nil
	t.Dispose()
}

// Tracking returns the tracking node driving n, if any.
func (n *Node) Tracking() *Node {
	return n.tracking
}
