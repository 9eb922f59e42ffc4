package sway

// CreateNode mirrors a node with the given config.
func (b *Bridge) CreateNode(tag int, config map[string]any) error {
	return b.enqueue(Instruction{Op: OpCreateNode, Tag: tag, Config: config}, func() {
		b.exec.CreateNode(tag, config)
	})
}

// ConnectNodes makes child read from parent on the remote side.
func (b *Bridge) ConnectNodes(parent, child int) error {
	return b.enqueue(Instruction{Op: OpConnectNodes, Tag: parent, Other: child}, func() {
		b.exec.ConnectNodes(parent, child)
	})
}

// DisconnectNodes reverses ConnectNodes.
func (b *Bridge) DisconnectNodes(parent, child int) error {
	return b.enqueue(Instruction{Op: OpDisconnectNodes, Tag: parent, Other: child}, func() {
		b.exec.DisconnectNodes(parent, child)
	})
}

// StartAnimatingNode starts a remote animation on tag. done is called once
// when the animation ends.
func (b *Bridge) StartAnimatingNode(animationID, tag int, config map[string]any, done func(AnimationResult)) error {
	ins := Instruction{Op: OpStartAnimating, AnimationID: animationID, Tag: tag, Config: config}
	if b.batch == nil {
		return b.enqueue(ins, func() {
			b.exec.StartAnimating(animationID, tag, config, done)
		})
	}
	// Flattened batches cannot carry the callback; register it first in case
	// the executor answers synchronously.
	b.pendingAnimations[animationID] = done
	if err := b.enqueue(ins, nil); err != nil {
		delete(b.pendingAnimations, animationID)
		return err
	}
	return nil
}

// StopAnimation stops a remote animation. Its completion callback fires
// with Finished false once the executor reports back.
func (b *Bridge) StopAnimation(animationID int) error {
	return b.enqueue(Instruction{Op: OpStopAnimation, AnimationID: animationID}, func() {
		b.exec.StopAnimation(animationID)
	})
}

// SetValue writes a value node.
func (b *Bridge) SetValue(tag int, v float64) error {
	return b.enqueue(Instruction{Op: OpSetValue, Tag: tag, Value: v}, func() {
		b.exec.SetValue(tag, v)
	})
}

// SetOffset writes a value node's offset.
func (b *Bridge) SetOffset(tag int, offset float64) error {
	return b.enqueue(Instruction{Op: OpSetOffset, Tag: tag, Value: offset}, func() {
		b.exec.SetOffset(tag, offset)
	})
}

// FlattenOffset merges a value node's offset into its value.
func (b *Bridge) FlattenOffset(tag int) error {
	return b.enqueue(Instruction{Op: OpFlattenOffset, Tag: tag}, func() {
		b.exec.FlattenOffset(tag)
	})
}

// ExtractOffset moves a value node's value into its offset.
func (b *Bridge) ExtractOffset(tag int) error {
	return b.enqueue(Instruction{Op: OpExtractOffset, Tag: tag}, func() {
		b.exec.ExtractOffset(tag)
	})
}

// ConnectToTarget binds a props node to a platform target.
func (b *Bridge) ConnectToTarget(tag, target int) error {
	return b.enqueue(Instruction{Op: OpConnectToTarget, Tag: tag, Other: target}, func() {
		b.exec.ConnectToTarget(tag, target)
	})
}

// DisconnectFromTarget reverses ConnectToTarget.
func (b *Bridge) DisconnectFromTarget(tag, target int) error {
	return b.enqueue(Instruction{Op: OpDisconnectFromTarget, Tag: tag, Other: target}, func() {
		b.exec.DisconnectFromTarget(tag, target)
	})
}

// RestoreDefaults resets the target properties written by a props node.
func (b *Bridge) RestoreDefaults(tag int) error {
	return b.enqueue(Instruction{Op: OpRestoreDefaults, Tag: tag}, func() {
		b.exec.RestoreDefaults(tag)
	})
}

// DropNode forgets a mirrored node.
func (b *Bridge) DropNode(tag int) error {
	return b.enqueue(Instruction{Op: OpDropNode, Tag: tag}, func() {
		b.exec.DropNode(tag)
	})
}

// AddEventMapping makes the remote side write tag whenever event fires on
// target, reading the number found at path inside the event payload.
func (b *Bridge) AddEventMapping(target int, event string, path []string, tag int) error {
	ins := Instruction{Op: OpAddEventMapping, Other: target, Event: event, Path: path, Tag: tag}
	return b.enqueue(ins, func() {
		b.exec.AddEventMapping(target, event, path, tag)
	})
}

// RemoveEventMapping reverses AddEventMapping.
func (b *Bridge) RemoveEventMapping(target int, event string, tag int) error {
	ins := Instruction{Op: OpRemoveEventMapping, Other: target, Event: event, Tag: tag}
	return b.enqueue(ins, func() {
		b.exec.RemoveEventMapping(target, event, tag)
	})
}

// GetValue asks the remote side for the current value of tag. cb is called
// once with the answer.
func (b *Bridge) GetValue(tag int, cb func(float64)) error {
	ins := Instruction{Op: OpGetValue, Tag: tag}
	if b.batch == nil {
		return b.enqueue(ins, func() {
			b.exec.GetValue(tag, cb)
		})
	}
	b.pendingValues[tag] = append(b.pendingValues[tag], cb)
	if err := b.enqueue(ins, nil); err != nil {
		cbs := b.pendingValues[tag]
		if len(cbs) <= 1 {
			delete(b.pendingValues, tag)
		} else {
			b.pendingValues[tag] = cbs[:len(cbs)-1]
		}
		return err
	}
	return nil
}
