package res

// AboutContent contains the Markdown content for the About dialog.
const AboutContent = `An audio-reactive visualizer built with Go and Fyne.

**Modules:**
- Circular Bars
- Spectrum Bars
- Analyzer

**Keys:**
- Space: start / stop the visualizer
- A: analyzer overlay
- F: FPS counter
- N: next module
- O: open a file
- P: pause / resume playback
`
