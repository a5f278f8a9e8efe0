package hardware

import (
	"github.com/kaedeo/dscore/cartridgeloader"
	"github.com/kaedeo/dscore/cheat"
	"github.com/kaedeo/dscore/firmware"
	"github.com/kaedeo/dscore/hardware/bios"
	"github.com/kaedeo/dscore/hardware/cartridge"
	"github.com/kaedeo/dscore/hardware/clocks"
	"github.com/kaedeo/dscore/hardware/cpu"
	"github.com/kaedeo/dscore/hardware/dma"
	"github.com/kaedeo/dscore/hardware/i2c"
	"github.com/kaedeo/dscore/hardware/instance"
	"github.com/kaedeo/dscore/hardware/interrupt"
	"github.com/kaedeo/dscore/hardware/ipc"
	"github.com/kaedeo/dscore/hardware/memory"
	"github.com/kaedeo/dscore/hardware/memory/memorymap"
	"github.com/kaedeo/dscore/hardware/preferences"
	"github.com/kaedeo/dscore/hardware/saveram"
	"github.com/kaedeo/dscore/hardware/scheduler"
	"github.com/kaedeo/dscore/hardware/spi"
	"github.com/kaedeo/dscore/hardware/timers"
	"github.com/kaedeo/dscore/logger"
	"github.com/kaedeo/dscore/savestate"
)

// ipc/dma/irq register offsets within each CPU's own 0x04000000 IO
// window, per the documented NDS register map.
const (
	dma0Base      = 0x000000B0
	timer0Base    = 0x00000100
	keypadBase    = 0x00000130
	ipcBase       = 0x00000180
	irqBase9      = 0x00000208
	auxSPIBase    = 0x000001A0
	romCtrlBase   = 0x000001A4
	romCmdBase    = 0x000001A8
	spiRegsBase   = 0x000001C0
	romDataBase   = 0x00100010
	i2cDataBase   = 0x000004A0
	i2cCntBase    = 0x000004A4
)

// ScreenWidth and ScreenHeight are the NDS/DSi LCD panel dimensions;
// each of the two screens' framebuffer is ScreenWidth*ScreenHeight
// 32-bit BGRA8 pixels.
const (
	ScreenWidth  = 256
	ScreenHeight = 192
)

// Framebuffer is one screen's worth of BGRA8 pixel data, row-major.
type Framebuffer [ScreenWidth * ScreenHeight * 4]byte

// FrameOutput is what RunFrame hands back to its frontend: the top and
// bottom screen framebuffers and the interleaved stereo S16 PCM samples
// produced during that frame. Actual 2D/3D pixel composition and audio
// mixing are external collaborators this package does not implement
// (spec's pixel/audio pipeline non-goal); Top/Bottom are the raw
// contents of VRAM banks A and C respectively, reinterpreted as BGR555
// whatever those banks are currently mapped to, and Audio is a correctly-sized
// silent buffer until a mixer is wired up.
type FrameOutput struct {
	Top    *Framebuffer
	Bottom *Framebuffer
	Audio  []int16
}

// Console owns every subsystem for one emulated handheld -- NDS or
// DSi, selected at construction -- and drives them through one video
// frame at a time. 2D/3D graphics composition and audio mixing are
// external collaborators this package does not implement; RunFrame's
// job ends at keeping both CPUs' instruction streams caught up to the
// scheduler horizon, the same boundary JetSetIlly-Gopher2600's VCS
// leaves to its attached television.
type Console struct {
	Instance *instance.Instance
	Prefs    *preferences.Preferences

	MM *memory.MemoryMap

	Arm9 *cpu.Core
	Arm7 *cpu.Core

	IRQ9 *interrupt.Controller
	IRQ7 *interrupt.Controller

	Sched *scheduler.Scheduler

	DMA9 *dma.Controller
	DMA7 *dma.Controller

	Timers9 *timers.Controller
	Timers7 *timers.Controller

	IPC *ipc.Link

	Cart *cartridge.Engine

	SPI   *spi.Bus
	touch *spi.TouchscreenDevice

	// I2C is only present on DSi: the classic NDS has no I2C bus.
	I2C   *i2c.Host
	BPTWL *i2c.BPTWL

	Firmware *firmware.Container

	dsi bool

	keypad *keypadRegs
}

// NewConsole builds a fully wired Console: both cores, both memory
// views, every peripheral, and the IO-register glue between them. dsi
// selects NDS or DSi sizing/peripheral set; fw, if non-nil, becomes the
// attached firmware image (GenerateDefault if the caller has none).
func NewConsole(dsi bool, seed int64, fw *firmware.Container) *Console {
	c := &Console{
		Instance: instance.NewInstance(seed),
		Prefs:    preferences.NewPreferences(),
		MM:       memory.New(dsi),
		IRQ9:     interrupt.New(),
		Sched:    scheduler.New(),
		Cart:     cartridge.New(),
		dsi:      dsi,
	}
	if dsi {
		c.IRQ7 = interrupt.NewExtended()
	} else {
		c.IRQ7 = interrupt.New()
	}

	view9 := memory.NewCPUView(c.MM, memorymap.Arm9)
	view7 := memory.NewCPUView(c.MM, memorymap.Arm7)

	c.Arm9 = cpu.NewCore(cpu.Arm946ES, view9, c.IRQ9)
	c.Arm7 = cpu.NewCore(cpu.Arm7TDMI, view7, c.IRQ7)
	c.Arm9.SetSWIHandler(bios.Handler)
	c.Arm7.SetSWIHandler(bios.Handler)

	c.DMA9 = dma.New(view9, c.IRQ9, 8)
	c.DMA7 = dma.New(view7, c.IRQ7, 8)

	c.Timers9 = timers.New(c.Sched, c.IRQ9, 3)
	c.Timers7 = timers.New(c.Sched, c.IRQ7, 3)

	c.IPC = ipc.NewLink(c.IRQ9, c.IRQ7, 16, 17, 18)

	if fw == nil {
		fw = firmware.GenerateDefault()
	}
	c.Firmware = fw

	c.touch = spi.NewTouchscreenDevice()
	c.SPI = spi.NewBus(spi.NewPMICDevice(), spi.NewFirmwareDevice(c.Firmware), c.touch)

	if dsi {
		c.BPTWL = i2c.NewBPTWL()
		c.I2C = i2c.NewHost(c.BPTWL, i2c.NewCamera(), i2c.NewCamera())
	}

	c.keypad = newKeypadRegs()

	c.registerMMIO()

	return c
}

func (c *Console) registerMMIO() {
	c.MM.RegisterMMIO(memorymap.Arm9, dma0Base, 4*dmaStride, newDMARegs(c.DMA9, dma0Base, 4))
	c.MM.RegisterMMIO(memorymap.Arm7, dma0Base, 4*dmaStride, newDMARegs(c.DMA7, dma0Base, 4))

	c.MM.RegisterMMIO(memorymap.Arm9, timer0Base, 0x10, newTimerRegs(c.Timers9, timer0Base))
	c.MM.RegisterMMIO(memorymap.Arm7, timer0Base, 0x10, newTimerRegs(c.Timers7, timer0Base))

	c.MM.RegisterMMIO(memorymap.Arm9, ipcBase, 0x0C, newIPCRegs(c.IPC, ipc.Arm9))
	c.MM.RegisterMMIO(memorymap.Arm7, ipcBase, 0x0C, newIPCRegs(c.IPC, ipc.Arm7))
	c.MM.RegisterMMIO(memorymap.Arm9, 0x100000, 4, newIPCRegs(c.IPC, ipc.Arm9))
	c.MM.RegisterMMIO(memorymap.Arm7, 0x100000, 4, newIPCRegs(c.IPC, ipc.Arm7))

	c.MM.RegisterMMIO(memorymap.Arm9, irqBase9, 0x18, newIRQRegs(c.IRQ9))
	c.MM.RegisterMMIO(memorymap.Arm7, irqBase9, 0x18, newIRQRegs(c.IRQ7))

	c.MM.RegisterMMIO(memorymap.Arm9, keypadBase, 0x08, c.keypad)
	c.MM.RegisterMMIO(memorymap.Arm7, keypadBase, 0x08, c.keypad)

	// The cartridge command bus and its save-chip SPI pair are wired to
	// both cores' IO windows the same as real hardware exposes them,
	// even though only the ARM7 (and, post-handshake, the ARM9) ever
	// actually issues commands against them in practice.
	cr := newCartRegs(c.Cart, c.Cart.Save)
	c.MM.RegisterMMIO(memorymap.Arm9, auxSPIBase, 4, cr)
	c.MM.RegisterMMIO(memorymap.Arm7, auxSPIBase, 4, cr)
	c.MM.RegisterMMIO(memorymap.Arm9, romCtrlBase, 4, cr)
	c.MM.RegisterMMIO(memorymap.Arm7, romCtrlBase, 4, cr)
	c.MM.RegisterMMIO(memorymap.Arm9, romCmdBase, 8, cr)
	c.MM.RegisterMMIO(memorymap.Arm7, romCmdBase, 8, cr)
	c.MM.RegisterMMIO(memorymap.Arm9, romDataBase, 4, cr)
	c.MM.RegisterMMIO(memorymap.Arm7, romDataBase, 4, cr)

	// SPI is ARM7-only addressable on real hardware (the firmware
	// flash, touchscreen/ADC and PMIC all sit behind the ARM7's bus).
	sr := newSPIRegs(c.SPI)
	c.MM.RegisterMMIO(memorymap.Arm7, spiRegsBase, 4, sr)

	if c.dsi {
		ir := newI2CRegs(c.I2C)
		c.MM.RegisterMMIO(memorymap.Arm7, i2cDataBase, 1, ir)
		c.MM.RegisterMMIO(memorymap.Arm7, i2cCntBase, 1, ir)
	}
}

// LoadROM installs rom onto the cartridge engine, auto-detecting its
// save-chip kind: an explicit save kind from the frontend (SetSave)
// overrides auto-detection,
// but a fresh LoadROM always starts from Unknown and lets the first
// save-chip command pin it down. It then performs a direct boot,
// copying both cores' binaries out of the ROM image into main RAM and
// setting each core's entry PC, the same shortcut melonDS's "direct
// boot" mode and every other modern NDS emulator takes in place of
// executing the real BIOS boot ROM.
func (c *Console) LoadROM(rom []byte, biosKeyBuffer []byte) error {
	if err := c.Cart.LoadROM(rom, biosKeyBuffer); err != nil {
		return err
	}
	*c.Cart.Save = *saveram.New(saveram.Unknown)

	h, err := cartridgeloader.ParseHeader(rom)
	if err != nil {
		return err
	}
	c.directBoot(rom, h)
	return nil
}

// directBoot copies each core's ARM binary from rom into main RAM at
// the address its header names, then points the core at its entry
// address, bypassing the BIOS's own boot-ROM copy loop entirely.
func (c *Console) directBoot(rom []byte, h cartridgeloader.Header) {
	copyROMToRAM(c.MM, memorymap.Arm9, rom, h.Arm9RomOffset, h.Arm9RamAddr, h.Arm9Size)
	copyROMToRAM(c.MM, memorymap.Arm7, rom, h.Arm7RomOffset, h.Arm7RamAddr, h.Arm7Size)
	c.Arm9.SetEntry(h.Arm9EntryAddr)
	c.Arm7.SetEntry(h.Arm7EntryAddr)
}

// copyROMToRAM copies size bytes of rom starting at romOff to ramAddr
// as cpu would see it, going through the normal Write8 path so that any
// MMIO or WRAM-routing side effects of writing into that range still
// apply. Bytes past the end of rom are copied as zero.
func copyROMToRAM(mm *memory.MemoryMap, cpu memorymap.Cpu, rom []byte, romOff, ramAddr, size uint32) {
	for i := uint32(0); i < size; i++ {
		off := int(romOff) + int(i)
		var b byte
		if off >= 0 && off < len(rom) {
			b = rom[off]
		}
		mm.Write8(cpu, ramAddr+i, b)
	}
}

// SetSave installs a previously-flushed save-RAM image of the given
// kind, for continuing a save started in an earlier session.
func (c *Console) SetSave(kind saveram.ChipKind, image []byte) {
	c.Cart.Save.LoadImage(kind, image)
}

// GetSave returns the cartridge's current save-RAM image, for the
// caller to persist to disk.
func (c *Console) GetSave() []byte { return c.Cart.Save.Image() }

// ApplyCheats runs every enabled code in list against main RAM as seen
// by the ARM9, the same address space Action-Replay-style codes are
// conventionally written against.
func (c *Console) ApplyCheats(list *cheat.List) {
	list.Apply(memory.NewCPUView(c.MM, memorymap.Arm9))
}

// SetKeyMask updates the KEYINPUT register from mask, a bit-per-button
// set (1 == held); KEYINPUT itself is active-low.
func (c *Console) SetKeyMask(mask uint16) { c.keypad.SetKeys(mask) }

// Touch reports a touchscreen press at (x, y) in screen-pixel
// coordinates, 0..255 by 0..191.
func (c *Console) Touch(x, y uint16) { c.touch.SetTouch(true, x, y) }

// ReleaseTouch reports the stylus lifting.
func (c *Console) ReleaseTouch() { c.touch.SetTouch(false, 0, 0) }

// RunFrame advances both CPUs and every scheduled peripheral event by
// one nominal video frame's worth of ticks, then returns that frame's
// pixel and audio output surface. The 2D/3D compositor and audio mixer
// themselves are out of scope: Top/Bottom are read back straight out of
// VRAM banks A and C (the bank mapping is not consulted), and Audio is a
// correctly-sized silent buffer, leaving the frontend free to overlay
// its own rendering or simply pass the surface through untouched.
func (c *Console) RunFrame() FrameOutput {
	horizon := c.Sched.Now() + scheduler.Tick(clocks.FrameTicks)
	c.Sched.RunUntil(horizon, func(from, to scheduler.Tick) {
		c.catchUp(c.Arm9, to)
		c.catchUp(c.Arm7, to)
	})

	return FrameOutput{
		Top:    c.readScreen("A"),
		Bottom: c.readScreen("C"),
		Audio:  make([]int16, 2*audioFramesPerFrame(c.Prefs)),
	}
}

// readScreen reinterprets bank's raw bytes as ScreenWidth*ScreenHeight
// 16-bit BGR555 pixels (the NDS's native LCDC bitmap format) and widens
// each to a BGRA8 pixel.
func (c *Console) readScreen(bank string) *Framebuffer {
	fb := &Framebuffer{}
	b := c.MM.VRAMBank(bank)
	if b == nil {
		return fb
	}
	for i := 0; i < ScreenWidth*ScreenHeight; i++ {
		lo := b.Read8(uint32(i * 2))
		hi := b.Read8(uint32(i*2 + 1))
		px := uint16(lo) | uint16(hi)<<8
		r := uint8(px&0x1F) << 3
		g := uint8((px>>5)&0x1F) << 3
		bl := uint8((px>>10)&0x1F) << 3
		off := i * 4
		fb[off+0] = bl
		fb[off+1] = g
		fb[off+2] = r
		fb[off+3] = 0xFF
	}
	return fb
}

// audioFramesPerFrame is how many stereo sample pairs one video frame's
// worth of the configured sample rate works out to.
func audioFramesPerFrame(p *preferences.Preferences) int {
	return int(uint64(p.AudioSampleRate) * clocks.FrameTicks / clocks.TicksPerSecond)
}

// catchUp steps core until its local cycle counter, converted to
// scheduler ticks via its TicksPerCycle, reaches target. A halted core
// still steps one cycle (one Step call) at a time rather than jumping directly to its
// next wake event -- a deliberate simplification documented alongside
// the rest of this package's scope decisions.
func (c *Console) catchUp(core *cpu.Core, target scheduler.Tick) {
	for scheduler.Tick(core.LocalCycles*core.Cap.TicksPerCycle) < target {
		core.Step()
	}
}

// Reset reinitializes both cores and the scheduler to their power-on
// state without touching loaded ROM/firmware/save data.
func (c *Console) Reset() {
	c.Arm9.Reset()
	c.Arm7.Reset()
	c.Sched.Reset()
}

// sections returns every subsystem's savestate.Section, in a fixed
// order so Save/Load always round-trip against each other regardless
// of Go's randomized map iteration elsewhere in this package.
func (c *Console) sections() []savestate.Section {
	ss := []savestate.Section{
		cpu.NewSection("CPU9", c.Arm9),
		cpu.NewSection("CPU7", c.Arm7),
		interrupt.NewSection("IRQ9", c.IRQ9),
		interrupt.NewSection("IRQ7", c.IRQ7),
		dma.NewSection("DMA9", c.DMA9),
		dma.NewSection("DMA7", c.DMA7),
		timers.NewSection("TM9", c.Timers9),
		timers.NewSection("TM7", c.Timers7),
		ipc.NewSection(c.IPC),
		memory.NewSection(c.MM),
		cartridge.NewSection(c.Cart),
		saveram.NewSection(c.Cart.Save),
		firmware.NewSection(c.Firmware),
	}
	return ss
}

// SaveState serializes the console's entire machine state, suitable
// for loading back with LoadState against a Console built from the
// same ROM and firmware image.
func (c *Console) SaveState() ([]byte, error) {
	return savestate.Save(c.sections())
}

// LoadState restores a state previously produced by SaveState.
func (c *Console) LoadState(data []byte) error {
	if err := savestate.Load(data, c.sections()); err != nil {
		return err
	}
	logger.Log("console", "loaded savestate (%d bytes)", len(data))
	return nil
}
