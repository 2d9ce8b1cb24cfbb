package wiegand

// flushData validates the accumulated frame and hands it to the data or
// data-error callback. Invalid frames are discarded. The caller resets the
// accumulator afterwards, so a frame is dispatched at most once.
func (obj *Device) flushData() {
	// nothing accumulated, or Begin was never called
	if obj.bits == 0 || obj.expectedBits == 0 {
		return
	}

	// pending errors win over everything else
	if obj.errTransmission || obj.errOverflow {
		kind := Communication
		if obj.errOverflow {
			kind = SizeTooBig
		}
		obj.dispatchError(kind)
		return
	}

	if obj.expectedBits != LengthAny && obj.bits != int(obj.expectedBits) {
		obj.dispatchError(SizeUnexpected)
		return
	}

	if !obj.decode {
		obj.dispatchData(0, obj.bits)
		return
	}

	switch obj.bits {
	case 4:
		// 4-bit keycode, no check necessary
		obj.dispatchData(0, 4)

	case 8:
		// 8-bit keycode: the upper nibble must be the bitwise complement
		// of the lower one, which carries the value
		value := obj.data[0] & 0x0F
		if obj.data[0] != value|(^value&0x0F)<<4 {
			obj.dispatchError(VerificationFailed)
			return
		}
		if obj.dataCb != nil {
			obj.data[0] = value
			obj.dataCb(obj.data[:1], 4)
		}

	case 26, 34:
		// the first and last bits carry the parity of their half of the
		// frame: even on the left, odd on the right. The center bit of an
		// odd-length frame would count towards both halves.
		//
		// At least one 34-bit reader in the wild fails this check. It is
		// suspected to be non-compliant, so the formula stays as
		// documented until real captures prove otherwise.
		var left, right bool
		for i := 0; i < (obj.bits+1)/2; i++ {
			left = left != readBit(obj.data[:], i)
		}
		for i := obj.bits / 2; i < obj.bits; i++ {
			right = right != readBit(obj.data[:], i)
		}
		if !left && right {
			obj.dispatchData(1, obj.bits-1)
		} else {
			obj.dispatchError(VerificationFailed)
		}

	default:
		obj.dispatchError(DecodeFailed)
	}
}

// dispatchData right-aligns the [start, end) bit range of the buffer and
// delivers it to the data callback, stripping everything outside the range.
func (obj *Device) dispatchData(start, end int) {
	if obj.dataCb == nil {
		return
	}
	n := alignData(obj.data[:], start, end)
	obj.dataCb(obj.data[:(n+7)/8], n)
}

// dispatchError right-aligns the whole buffer and delivers it to the
// data-error callback. Events without a registered handler are dropped.
func (obj *Device) dispatchError(kind DataError) {
	if obj.errorCb == nil {
		return
	}
	n := alignData(obj.data[:], 0, obj.bits)
	obj.errorCb(kind, obj.data[:(n+7)/8], n)
}
