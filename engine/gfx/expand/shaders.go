package expand

// GLSL 3.30 sources. Points are drawn with GL_POINTS; the geometry stage
// emits the same strip as Glyph and Colored. uBase packs the ratio part in
// xy and the points part in zw.

const GlyphVertexSource = `
#version 330 core
layout(location=0) in vec2 aUVMin;
layout(location=1) in vec2 aUVMax;
layout(location=2) in vec2 aOffsetRatio;
layout(location=3) in vec2 aOffsetPts;
layout(location=4) in vec2 aSizeRatio;
layout(location=5) in vec2 aSizePts;
layout(location=6) in vec4 aTint;

uniform mat3 uTransform;
uniform vec2 uPtsRatScale;
uniform vec4 uBase;

out VS_OUT {
    vec2 ul;
    vec2 dx;
    vec2 dy;
    vec2 uvMin;
    vec2 uvMax;
    vec4 color;
} vs;

vec2 flatten(vec2 ratio, vec2 pts) { return ratio + pts * uPtsRatScale; }

void main() {
    vs.ul = (uTransform * vec3(flatten(uBase.xy + aOffsetRatio, uBase.zw + aOffsetPts), 1.0)).xy;
    vs.dx = (uTransform * vec3(flatten(vec2(aSizeRatio.x, 0.0), vec2(aSizePts.x, 0.0)), 0.0)).xy;
    vs.dy = (uTransform * vec3(flatten(vec2(0.0, aSizeRatio.y), vec2(0.0, aSizePts.y)), 0.0)).xy;
    vs.uvMin = aUVMin;
    vs.uvMax = aUVMax;
    vs.color = aTint;
    gl_Position = vec4(vs.ul, 0.0, 1.0);
}
`

const GlyphGeometrySource = `
#version 330 core
layout(points) in;
layout(triangle_strip, max_vertices = 4) out;

in VS_OUT {
    vec2 ul;
    vec2 dx;
    vec2 dy;
    vec2 uvMin;
    vec2 uvMax;
    vec4 color;
} gs[];

out vec2 vUV;
out vec4 vColor;

void emit(vec2 pos, vec2 uv) {
    gl_Position = vec4(pos, 0.0, 1.0);
    vUV = uv;
    vColor = gs[0].color;
    EmitVertex();
}

void main() {
    vec2 ul = gs[0].ul;
    vec2 dx = gs[0].dx;
    vec2 dy = gs[0].dy;
    vec2 a = gs[0].uvMin;
    vec2 b = gs[0].uvMax;
    emit(ul + dx, vec2(b.x, a.y));
    emit(ul, a);
    emit(ul + dx + dy, b);
    emit(ul + dy, vec2(a.x, b.y));
    EndPrimitive();
}
`

// AlphaFragmentSource samples a single channel coverage texture.
const AlphaFragmentSource = `
#version 330 core
in vec2 vUV;
in vec4 vColor;
uniform sampler2D uTex;
out vec4 FragColor;
void main() {
    float coverage = texture(uTex, vUV).r;
    FragColor = vec4(vColor.rgb, vColor.a * coverage);
}
`

const RGBAFragmentSource = `
#version 330 core
in vec2 vUV;
in vec4 vColor;
uniform sampler2D uTex;
out vec4 FragColor;
void main() {
    FragColor = texture(uTex, vUV) * vColor;
}
`

const ColoredVertexSource = `
#version 330 core
layout(location=0) in vec2 aPosRatio;
layout(location=1) in vec2 aPosPts;
layout(location=2) in vec2 aSizeRatio;
layout(location=3) in vec2 aSizePts;
layout(location=4) in vec2 aNormal;
layout(location=5) in vec4 aColor;

uniform mat3 uTransform;
uniform vec2 uPtsRatScale;
uniform vec4 uBase;

out VS_OUT {
    vec2 ul;
    vec2 dx;
    vec2 dy;
    vec4 color;
} vs;

vec2 flatten(vec2 ratio, vec2 pts) { return ratio + pts * uPtsRatScale; }

void main() {
    vs.ul = (uTransform * vec3(flatten(uBase.xy + aPosRatio, uBase.zw + aPosPts), 1.0)).xy;
    vs.dx = (uTransform * vec3(flatten(vec2(aSizeRatio.x, 0.0), vec2(aSizePts.x, 0.0)), 0.0)).xy;
    vs.dy = (uTransform * vec3(flatten(vec2(0.0, aSizeRatio.y), vec2(0.0, aSizePts.y)), 0.0)).xy;
    vs.color = aColor;
    gl_Position = vec4(vs.ul, 0.0, 1.0);
}
`

const ColoredGeometrySource = `
#version 330 core
layout(points) in;
layout(triangle_strip, max_vertices = 4) out;

in VS_OUT {
    vec2 ul;
    vec2 dx;
    vec2 dy;
    vec4 color;
} gs[];

out vec4 vColor;

void emit(vec2 pos) {
    gl_Position = vec4(pos, 0.0, 1.0);
    vColor = gs[0].color;
    EmitVertex();
}

void main() {
    vec2 ul = gs[0].ul;
    emit(ul + gs[0].dx);
    emit(ul);
    emit(ul + gs[0].dx + gs[0].dy);
    emit(ul + gs[0].dy);
    EndPrimitive();
}
`

const FlatFragmentSource = `
#version 330 core
in vec4 vColor;
out vec4 FragColor;
void main() {
    FragColor = vColor;
}
`
